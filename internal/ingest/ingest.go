// Package ingest turns an input file into a RawDocument: its text and, for
// business documents, a first structured analysis and financial metrics.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/prompts"
	"github.com/ppiankov/cimbrief/internal/util"
)

// Options tune the ingestor
type Options struct {
	MaxBytes      int64 // 0 disables the size check
	MaxInputChars int   // prompt text cap; 0 disables truncation
	Logger        *zap.Logger
}

// Ingestor reads input files and runs the ingest-time structuring requests
type Ingestor struct {
	client   *llm.Client
	registry *Registry
	opts     Options
	log      *zap.Logger
}

// New creates an Ingestor using the built-in extractors
func New(client *llm.Client, opts Options) *Ingestor {
	log := opts.Logger
	if log == nil {
		log = zap.L()
	}
	return &Ingestor{
		client:   client,
		registry: NewRegistry(),
		opts:     opts,
		log:      log.With(zap.String("stage", "ingest")),
	}
}

// Registry exposes the extractor registry for callers that add formats
func (i *Ingestor) Registry() *Registry {
	return i.registry
}

// Ingest reads path and returns its RawDocument. Unsupported extensions and
// file-system failures are returned; model failures are logged and degrade
// to empty values.
func (i *Ingestor) Ingest(ctx context.Context, path string) (*model.RawDocument, error) {
	extractor := i.registry.Find(path)
	if extractor == nil {
		return nil, &UnsupportedFormatError{Path: path, Ext: strings.ToLower(filepath.Ext(path))}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	if info.IsDir() {
		return nil, eris.Errorf("read %s: is a directory", path)
	}
	if i.opts.MaxBytes > 0 && info.Size() > i.opts.MaxBytes {
		return nil, eris.Errorf("read %s: file is %d bytes, limit is %d", path, info.Size(), i.opts.MaxBytes)
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	log := i.log.With(zap.String("path", path), zap.String("extractor", extractor.Name()))
	log.Debug("ingest: text extracted", zap.Int("chars", len(text)))

	doc := &model.RawDocument{Path: path, Text: text}
	if !extractor.Document() {
		return doc, nil
	}

	if strings.TrimSpace(text) == "" {
		log.Warn("ingest: no text extracted, skipping analysis")
		doc.Analysis = &model.StructuredAnalysis{CompanyInfo: model.CompanyInfo{}, MarketInfo: model.MarketInfo{}}
		doc.FinancialMetrics = &model.FinancialMetrics{}
		return doc, nil
	}

	analysis, metrics := i.analyze(ctx, text, log)
	doc.Analysis = &analysis
	doc.FinancialMetrics = &metrics
	return doc, nil
}

// analyze issues the analysis and metrics requests concurrently. Neither
// can fail the run.
func (i *Ingestor) analyze(ctx context.Context, text string, log *zap.Logger) (model.StructuredAnalysis, model.FinancialMetrics) {
	promptText := util.Truncate(text, i.opts.MaxInputChars)

	var (
		analysis = model.StructuredAnalysis{CompanyInfo: model.CompanyInfo{}, MarketInfo: model.MarketInfo{}}
		metrics  model.FinancialMetrics
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p := prompts.MustGet(prompts.Analysis)
		obj, err := i.client.CompleteJSON(gctx, prompts.Analysis, llm.Request{
			System:    p.System,
			Prompt:    p.Build(map[string]string{"Text": promptText}),
			MaxTokens: p.MaxTokens,
		}, p.Schema)
		if err != nil {
			log.Warn("ingest: analysis failed, continuing without it", zap.Error(err))
			return nil
		}
		analysis = analysisFromMap(obj)
		return nil
	})

	g.Go(func() error {
		p := prompts.MustGet(prompts.Metrics)
		obj, err := i.client.CompleteJSON(gctx, prompts.Metrics, llm.Request{
			System:    p.System,
			Prompt:    p.Build(map[string]string{"Text": promptText}),
			MaxTokens: p.MaxTokens,
		}, p.Schema)
		if err != nil {
			log.Warn("ingest: metrics extraction failed, falling back to patterns", zap.Error(err))
			metrics = FallbackMetrics(text)
			return nil
		}
		metrics = model.FinancialMetricsFromMap(obj)
		return nil
	})

	_ = g.Wait()
	return analysis, metrics
}
