// Package present derives the deck payload from the sectioned text.
// It re-extracts company, market and financial facets and the investment
// highlights independently of the prose summaries.
package present

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/prompts"
	"github.com/ppiankov/cimbrief/internal/worker"
)

// HighlightSeparator joins section texts for the highlights request
const HighlightSeparator = "\n\n"

// Builder builds a PresentationPayload from a SectionSet
type Builder struct {
	client  *llm.Client
	workers int
	log     *zap.Logger
}

// New creates a Builder running facet requests on up to workers goroutines
func New(client *llm.Client, workers int, logger *zap.Logger) *Builder {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Builder{
		client:  client,
		workers: workers,
		log:     logger.With(zap.String("stage", "present")),
	}
}

// Build extracts all four facets. A failed facet keeps its empty default;
// the others are unaffected.
func (b *Builder) Build(ctx context.Context, sections model.SectionSet) model.PresentationPayload {
	payload := model.EmptyPayload()

	jobs := []worker.Job{
		&facetJob{
			name:   prompts.CompanyInfo,
			source: sections[model.SectionCompanyOverview],
			run: func(ctx context.Context, text string) error {
				obj, err := b.structured(ctx, prompts.CompanyInfo, text)
				if err != nil {
					return err
				}
				payload.Analysis.CompanyInfo = model.Compact(obj)
				return nil
			},
		},
		&facetJob{
			name:   prompts.MarketInfo,
			source: sections[model.SectionMarketOpportunity],
			run: func(ctx context.Context, text string) error {
				obj, err := b.structured(ctx, prompts.MarketInfo, text)
				if err != nil {
					return err
				}
				payload.Analysis.MarketInfo = model.Compact(obj)
				return nil
			},
		},
		&facetJob{
			name:   prompts.FinancialMetrics,
			source: sections[model.SectionFinancials],
			run: func(ctx context.Context, text string) error {
				obj, err := b.structured(ctx, prompts.FinancialMetrics, text)
				if err != nil {
					return err
				}
				payload.FinancialMetrics = model.FinancialMetricsFromMap(obj)
				return nil
			},
		},
		&facetJob{
			name:   prompts.Highlights,
			source: joinedText(sections),
			run: func(ctx context.Context, text string) error {
				p := prompts.MustGet(prompts.Highlights)
				resp, err := b.client.Complete(ctx, prompts.Highlights, llm.Request{
					System:    p.System,
					Prompt:    p.Build(map[string]string{"Text": text}),
					MaxTokens: p.MaxTokens,
				})
				if err != nil {
					return err
				}
				payload.Analysis.KeyHighlights = NormalizeHighlights(resp.Text)
				return nil
			},
		},
	}

	for _, r := range worker.Run(ctx, b.workers, jobs...) {
		res := r.(*facetResult)
		switch {
		case res.skipped:
			b.log.Debug("present: no source text, facet left empty", zap.String("facet", res.name))
		case res.err != nil:
			b.log.Warn("present: facet failed, left empty", zap.String("facet", res.name), zap.Error(res.err))
		}
	}

	return payload
}

func (b *Builder) structured(ctx context.Context, name, text string) (map[string]any, error) {
	p := prompts.MustGet(name)
	return b.client.CompleteJSON(ctx, name, llm.Request{
		System:    p.System,
		Prompt:    p.Build(map[string]string{"Text": text}),
		MaxTokens: p.MaxTokens,
	}, p.Schema)
}

// joinedText concatenates non-blank sections in canonical order, or returns
// "" when every section is blank
func joinedText(sections model.SectionSet) string {
	parts := make([]string, 0, len(model.Sections))
	for _, name := range model.Sections {
		if !sections.Blank(name) {
			parts = append(parts, sections[name])
		}
	}
	return strings.Join(parts, HighlightSeparator)
}

// facetJob runs one facet extraction on the worker pool. Each job writes
// only its own payload field.
type facetJob struct {
	name   string
	source string
	run    func(ctx context.Context, text string) error
}

type facetResult struct {
	name    string
	skipped bool
	err     error
}

func (r *facetResult) GetError() error {
	return r.err
}

func (j *facetJob) Execute(ctx context.Context) worker.Result {
	if strings.TrimSpace(j.source) == "" {
		return &facetResult{name: j.name, skipped: true}
	}
	return &facetResult{name: j.name, err: j.run(ctx, j.source)}
}
