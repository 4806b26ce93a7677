package llm

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/cimbrief/internal/cache"
	"github.com/ppiankov/cimbrief/internal/worker"
)

// ClientOptions configures the behavior Client layers over a Provider
type ClientOptions struct {
	Cache       cache.Cache // nil disables caching
	CacheTTL    time.Duration
	Limiter     *worker.Limiter // nil disables throttling
	Retry       RetryConfig
	Temperature float64
	Logger      *zap.Logger
}

// Client is the single entry point stages use to talk to a model.
// It adds caching, throttling, bounded retry and typed errors.
type Client struct {
	provider Provider
	opts     ClientOptions
	log      *zap.Logger
}

// NewClient wraps provider
func NewClient(provider Provider, opts ClientOptions) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.L()
	}
	return &Client{
		provider: provider,
		opts:     opts,
		log:      log.With(zap.String("provider", provider.Name())),
	}
}

// ProviderName returns the wrapped provider's name
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Complete runs one request. op names the calling step for logs and errors.
// Any failure is returned as *ServiceCallError.
func (c *Client) Complete(ctx context.Context, op string, req Request) (*Response, error) {
	req.Temperature = c.opts.Temperature
	key := c.cacheKey(req)

	if c.opts.Cache != nil {
		if raw, ok := c.opts.Cache.Get(key); ok {
			var cached Response
			if err := json.Unmarshal(raw, &cached); err == nil {
				cached.Cached = true
				c.log.Debug("llm: cache hit", zap.String("op", op))
				return &cached, nil
			}
		}
	}

	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx, c.provider.Name()); err != nil {
			return nil, &ServiceCallError{Provider: c.provider.Name(), Op: op, Cause: err}
		}
	}

	start := time.Now()
	resp, err := withRetry(ctx, c.opts.Retry, func() (*Response, error) {
		return c.provider.Complete(ctx, req)
	}, func(attempt int, backoff time.Duration, err error) {
		c.log.Warn("llm: retrying request",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
	})
	if err != nil {
		c.log.Warn("llm: request failed", zap.String("op", op), zap.Error(err))
		return nil, &ServiceCallError{Provider: c.provider.Name(), Op: op, Cause: err}
	}

	c.log.Debug("llm: request complete",
		zap.String("op", op),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed),
		zap.Duration("elapsed", time.Since(start)))

	if c.opts.Cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := c.opts.Cache.Set(key, raw, c.opts.CacheTTL); err != nil {
				c.log.Debug("llm: cache write failed", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// CompleteJSON runs a request with the JSON hint and decodes the reply as
// one object validated against schema. Service failures are
// *ServiceCallError; shape failures are *ParseError.
func (c *Client) CompleteJSON(ctx context.Context, op string, req Request, schema string) (map[string]any, error) {
	req.JSON = true
	resp, err := c.Complete(ctx, op, req)
	if err != nil {
		return nil, err
	}

	obj, err := DecodeObject(op, resp.Text, schema)
	if err != nil {
		// Do not replay a malformed reply on the next run
		if c.opts.Cache != nil {
			_ = c.opts.Cache.Delete(c.cacheKey(req))
		}
		return nil, err
	}
	return obj, nil
}

func (c *Client) cacheKey(req Request) string {
	return cache.Key(
		c.provider.Name(),
		req.Model,
		req.System,
		req.Prompt,
		strconv.FormatBool(req.JSON),
		strconv.Itoa(req.MaxTokens),
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
	)
}
