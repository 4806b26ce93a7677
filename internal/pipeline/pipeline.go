// Package pipeline runs one document through every stage: ingest, section
// split, summarization, presentation building and rendering.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/cimbrief/internal/ingest"
	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/present"
	"github.com/ppiankov/cimbrief/internal/render"
	"github.com/ppiankov/cimbrief/internal/sections"
	"github.com/ppiankov/cimbrief/internal/summarize"
)

// Pipeline orchestrates the complete run
type Pipeline struct {
	ingestor    *ingest.Ingestor
	sectionizer *sections.Sectionizer
	summarizer  *summarize.Summarizer
	builder     *present.Builder
	config      *model.Config
	log         *zap.Logger

	progress          io.Writer
	payloadBesideDeck bool
	now               func() time.Time
}

// New creates a pipeline whose stages share client
func New(cfg *model.Config, client *llm.Client, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.L()
	}
	return &Pipeline{
		ingestor: ingest.New(client, ingest.Options{
			MaxBytes:      cfg.Ingest.MaxBytes,
			MaxInputChars: cfg.Ingest.MaxInputChars,
			Logger:        logger,
		}),
		sectionizer: sections.New(client, cfg.Ingest.MaxInputChars, logger),
		summarizer:  summarize.New(client, cfg.Pipeline.Parallelism, logger),
		builder:     present.New(client, cfg.Pipeline.Parallelism, logger),
		config:      cfg,
		log:         logger.With(zap.String("component", "pipeline")),
		progress:    os.Stderr,
		now:         time.Now,
	}
}

// SetProgress redirects step output; nil silences it
func (p *Pipeline) SetProgress(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	p.progress = w
}

// SetPayloadBesideDeck writes each run's payload dump next to its deck
// (<deck stem>.json) instead of the configured payload path. Batch runs use
// this so documents do not overwrite each other's dump.
func (p *Pipeline) SetPayloadBesideDeck(on bool) {
	p.payloadBesideDeck = on
}

// PayloadPath returns where the payload dump for deckPath is written
func (p *Pipeline) PayloadPath(deckPath string) string {
	if p.payloadBesideDeck {
		return strings.TrimSuffix(deckPath, filepath.Ext(deckPath)) + ".json"
	}
	return p.config.Pipeline.PayloadPath
}

// RunDocument converts inputPath into an executive summary at summaryPath
// and a deck at deckPath. Unsupported input, file-system failures and
// summarization failures abort the run.
func (p *Pipeline) RunDocument(ctx context.Context, inputPath, summaryPath, deckPath string) (*model.RunResult, error) {
	result := &model.RunResult{
		RunID:       uuid.NewString(),
		InputPath:   inputPath,
		SummaryPath: summaryPath,
		DeckPath:    deckPath,
		StartedAt:   p.now(),
	}
	log := p.log.With(zap.String("run_id", result.RunID), zap.String("input", inputPath))
	log.Info("pipeline: run started")

	var raw *model.RawDocument
	err := p.step("Extracting text from document", func() error {
		var err error
		raw, err = p.ingestor.Ingest(ctx, inputPath)
		return err
	})
	if err != nil {
		return nil, eris.Wrap(err, "ingest")
	}

	var parsed model.ParsedDocument
	_ = p.step("Parsing document sections", func() error {
		parsed = p.sectionizer.Parse(ctx, raw)
		return nil
	})
	log.Debug("pipeline: sections parsed", zap.Strings("populated", populated(parsed.Sections)))

	var summary model.SummaryMap
	err = p.step("Generating executive summary", func() error {
		var err error
		summary, err = p.summarizer.Summarize(ctx, parsed.Sections)
		return err
	})
	if err != nil {
		return nil, eris.Wrap(err, "summarize")
	}
	result.Summary = summary

	err = p.step("Writing summary to "+summaryPath, func() error {
		return render.WriteSummaryFile(summary, summaryPath)
	})
	if err != nil {
		return nil, err
	}

	var deck render.Deck
	err = p.step("Creating presentation", func() error {
		result.Payload = p.builder.Build(ctx, parsed.Sections)

		result.PayloadPath = p.PayloadPath(deckPath)
		if result.PayloadPath != "" {
			if err := render.WritePayload(result.Payload, result.PayloadPath); err != nil {
				// The dump is diagnostic only
				log.Warn("pipeline: payload dump failed", zap.Error(err))
				result.PayloadPath = ""
			}
		}

		deck = render.BuildDeck(result.Payload, result.StartedAt)
		return render.WriteDeckFile(deck, deckPath)
	})
	if err != nil {
		return nil, err
	}

	result.SlideCount = len(deck.Slides)
	result.Duration = time.Since(result.StartedAt)
	log.Info("pipeline: run complete",
		zap.Int("slides", result.SlideCount),
		zap.Duration("elapsed", result.Duration))

	return result, nil
}

// step prints a progress line around fn
func (p *Pipeline) step(name string, fn func() error) error {
	fmt.Fprintf(p.progress, "⚙️  %s...\n", name)
	if err := fn(); err != nil {
		return err
	}
	fmt.Fprintf(p.progress, "✓ %s\n", name)
	return nil
}

func populated(set model.SectionSet) []string {
	var names []string
	for _, name := range model.Sections {
		if !set.Blank(name) {
			names = append(names, name)
		}
	}
	return names
}
