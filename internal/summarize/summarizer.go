// Package summarize produces one prose summary per canonical section.
package summarize

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/prompts"
)

// Summarizer issues the section summary requests
type Summarizer struct {
	client      *llm.Client
	parallelism int
	log         *zap.Logger
}

// New creates a Summarizer running at most parallelism requests at once
func New(client *llm.Client, parallelism int, logger *zap.Logger) *Summarizer {
	if parallelism <= 0 {
		parallelism = 1
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Summarizer{
		client:      client,
		parallelism: parallelism,
		log:         logger.With(zap.String("stage", "summarize")),
	}
}

// Summarize returns a SummaryMap with every canonical section. Blank
// sections get model.Sentinel without a request. A failed request aborts
// the whole call and its *llm.ServiceCallError is returned.
func (s *Summarizer) Summarize(ctx context.Context, sections model.SectionSet) (model.SummaryMap, error) {
	// Every section starts as the sentinel; goroutines only overwrite
	// their own entry under mu.
	summary := make(model.SummaryMap, len(model.Sections))
	for _, name := range model.Sections {
		summary[name] = model.Sentinel
	}
	var mu sync.Mutex

	system, maxTokens := prompts.SummarySystem()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for _, name := range model.Sections {
		if sections.Blank(name) {
			continue
		}

		text := sections[name]
		tmpl := prompts.SectionTemplateFor(name)
		g.Go(func() error {
			resp, err := s.client.Complete(gctx, "summarize", llm.Request{
				System:    system,
				Prompt:    tmpl.Render(text),
				MaxTokens: maxTokens,
			})
			if err != nil {
				s.log.Error("summarize: section failed", zap.String("section", name), zap.Error(err))
				return err
			}

			out := strings.TrimSpace(resp.Text)
			if out == "" {
				s.log.Warn("summarize: empty reply, using sentinel", zap.String("section", name))
				return nil
			}

			mu.Lock()
			summary[name] = out
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
