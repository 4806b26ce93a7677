// Package sections partitions document text into the four canonical
// sections and extracts the company's identity.
package sections

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/prompts"
	"github.com/ppiankov/cimbrief/internal/util"
)

// Company identity keys
const (
	KeyCompanyName = "company_name"
	KeyLocation    = "location"
	KeyIndustry    = "industry"
)

// DefaultMaxInputChars caps the text sent with the split request
const DefaultMaxInputChars = 100000

// Sectionizer issues the structuring requests of the parse stage
type Sectionizer struct {
	client        *llm.Client
	maxInputChars int
	log           *zap.Logger
}

// New creates a Sectionizer. maxInputChars <= 0 uses DefaultMaxInputChars.
func New(client *llm.Client, maxInputChars int, logger *zap.Logger) *Sectionizer {
	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Sectionizer{
		client:        client,
		maxInputChars: maxInputChars,
		log:           logger.With(zap.String("stage", "sections")),
	}
}

// Parse splits doc's text and extracts company identity concurrently, then
// carries the document's financial metrics forward.
func (s *Sectionizer) Parse(ctx context.Context, doc *model.RawDocument) model.ParsedDocument {
	parsed := model.ParsedDocument{
		Sections:    model.EmptySectionSet(),
		CompanyInfo: model.CompanyInfo{},
	}
	if doc == nil {
		return parsed
	}
	if doc.FinancialMetrics != nil {
		parsed.FinancialMetrics = *doc.FinancialMetrics
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		parsed.Sections = s.Split(gctx, doc.Text)
		return nil
	})
	g.Go(func() error {
		parsed.CompanyInfo = s.ExtractCompanyInfo(gctx, doc.Text)
		return nil
	})
	_ = g.Wait()

	return parsed
}

// Split asks the model to partition text into the canonical sections.
// The result always has every canonical key; any failure yields all-empty
// sections.
func (s *Sectionizer) Split(ctx context.Context, text string) model.SectionSet {
	if strings.TrimSpace(text) == "" {
		return model.EmptySectionSet()
	}

	p := prompts.MustGet(prompts.SplitSections)
	obj, err := s.client.CompleteJSON(ctx, prompts.SplitSections, llm.Request{
		System: p.System,
		Prompt: p.Build(map[string]string{
			"Sections": sectionList(),
			"Shape":    sectionShape(),
			"Text":     util.Truncate(text, s.maxInputChars),
		}),
		MaxTokens: p.MaxTokens,
	}, p.Schema)
	if err != nil {
		s.log.Warn("sections: split failed, using empty sections", zap.Error(err))
		return model.EmptySectionSet()
	}

	return sectionsFromMap(obj)
}

// ExtractCompanyInfo asks for the company's name, location and industry.
// Blank values are dropped; any failure yields an empty map.
func (s *Sectionizer) ExtractCompanyInfo(ctx context.Context, text string) model.CompanyInfo {
	if strings.TrimSpace(text) == "" {
		return model.CompanyInfo{}
	}

	p := prompts.MustGet(prompts.CompanyIdentity)
	obj, err := s.client.CompleteJSON(ctx, prompts.CompanyIdentity, llm.Request{
		System:    p.System,
		Prompt:    p.Build(map[string]string{"Text": util.Truncate(text, s.maxInputChars)}),
		MaxTokens: p.MaxTokens,
	}, p.Schema)
	if err != nil {
		s.log.Warn("sections: company info failed, continuing without it", zap.Error(err))
		return model.CompanyInfo{}
	}

	return model.Compact(obj)
}

// sectionsFromMap keeps canonical keys, matched case-insensitively
func sectionsFromMap(obj map[string]any) model.SectionSet {
	src := make(map[string]string, len(model.Sections))
	for key, value := range obj {
		for _, name := range model.Sections {
			if strings.EqualFold(strings.TrimSpace(key), name) {
				src[name] = model.StringValue(value)
			}
		}
	}
	return model.NewSectionSet(src)
}

func sectionList() string {
	lines := make([]string, len(model.Sections))
	for i, name := range model.Sections {
		lines[i] = "- " + name
	}
	return strings.Join(lines, "\n")
}

func sectionShape() string {
	shape := make(map[string]string, len(model.Sections))
	for _, name := range model.Sections {
		shape[name] = "extracted text..."
	}
	out, _ := json.MarshalIndent(shape, "", "    ")
	return string(out)
}
