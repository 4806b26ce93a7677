package cli

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/cimbrief/internal/cache"
	"github.com/ppiankov/cimbrief/internal/llm"
	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/worker"
)

// newClient builds the shared model client: provider, response cache,
// per-provider throttle and bounded retry
func newClient(cfg *model.Config, log *zap.Logger) (*llm.Client, *cache.LayeredCache, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		if env := llm.APIKeyEnv(cfg.LLM.Provider); env != "" && cfg.LLM.APIKey == "" {
			return nil, nil, eris.Wrapf(err, "set %s or llm.api_key", env)
		}
		return nil, nil, eris.Wrap(err, "create llm provider")
	}

	retry := llm.NewDefaultRetryConfig()
	retry.MaxRetries = cfg.LLM.MaxRetries

	opts := llm.ClientOptions{
		Limiter:     worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Retry:       retry,
		Temperature: cfg.LLM.Temperature,
		Logger:      log,
	}

	var layered *cache.LayeredCache
	if cfg.Cache.Enabled {
		layered = cache.NewLayeredCache(
			time.Duration(cfg.Cache.MemoryTTL)*time.Minute,
			cfg.Cache.Dir,
			time.Duration(cfg.Cache.DiskTTL)*time.Hour,
		)
		opts.Cache = layered
		opts.CacheTTL = time.Duration(cfg.Cache.DiskTTL) * time.Hour
	}

	return llm.NewClient(provider, opts), layered, nil
}

func logCacheStats(log *zap.Logger, c *cache.LayeredCache) {
	if c == nil {
		return
	}
	stats := c.Stats()
	log.Debug("llm cache", zap.Int64("hits", stats.Hits), zap.Int64("misses", stats.Misses))
}
