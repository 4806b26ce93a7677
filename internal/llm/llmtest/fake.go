// Package llmtest provides a scripted llm.Provider for stage tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/ppiankov/cimbrief/internal/llm"
)

// Rule answers every request whose system or user text contains Match
type Rule struct {
	Match string
	Reply string
	Err   error
}

// Provider replies from its rules in order; unmatched requests get Default
type Provider struct {
	Rules   []Rule
	Default string

	mu    sync.Mutex
	calls []llm.Request
}

// New returns a Provider with the given rules
func New(rules ...Rule) *Provider {
	return &Provider{Rules: rules}
}

// Name returns "fake"
func (p *Provider) Name() string {
	return "fake"
}

// IsAvailable always reports true
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return true
}

// Complete records the request and returns the first matching rule's reply
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, rule := range p.Rules {
		if strings.Contains(req.System, rule.Match) || strings.Contains(req.Prompt, rule.Match) {
			if rule.Err != nil {
				return nil, rule.Err
			}
			return &llm.Response{Text: rule.Reply, Model: "fake-model"}, nil
		}
	}
	return &llm.Response{Text: p.Default, Model: "fake-model"}, nil
}

// Calls returns a copy of every request seen so far
func (p *Provider) Calls() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.Request(nil), p.calls...)
}

// CallsMatching counts requests whose system or user text contains s
func (p *Provider) CallsMatching(s string) int {
	n := 0
	for _, req := range p.Calls() {
		if strings.Contains(req.System, s) || strings.Contains(req.Prompt, s) {
			n++
		}
	}
	return n
}

// Client wraps p in an llm.Client with no cache, throttle or retry
func (p *Provider) Client() *llm.Client {
	return llm.NewClient(p, llm.ClientOptions{})
}
