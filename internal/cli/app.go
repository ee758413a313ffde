package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dappnode/packages-status/pkg/cache"
	"github.com/dappnode/packages-status/pkg/collect"
	"github.com/dappnode/packages-status/pkg/config"
	"github.com/dappnode/packages-status/pkg/httputil"
	"github.com/dappnode/packages-status/pkg/integrations/github"
	"github.com/dappnode/packages-status/pkg/integrations/ipfs"
	"github.com/dappnode/packages-status/pkg/integrations/registry"
	"github.com/dappnode/packages-status/pkg/pipeline"
)

// =============================================================================
// Runner Factory
// =============================================================================

// app is everything a refresh needs, built from one configuration.
type app struct {
	cfg      *config.Config
	cache    cache.Cache
	breakers *httputil.Breakers
	runner   *pipeline.Runner
}

// newApp wires config, cache, clients and runner. The caller closes the
// returned app.
func newApp(ctx context.Context, cfg *config.Config, noCache bool, logger *log.Logger) (*app, error) {
	c, err := newCache(ctx, cfg, noCache, logger)
	if err != nil {
		return nil, err
	}

	breakers := httputil.NewBreakers()

	reg := registry.NewClient(c, cfg.Registry.URL, cfg.Registry.TTL.Duration)
	reg.SetBreakers(breakers)

	store := ipfs.NewClient(c, cfg.IPFS.Gateway)
	store.SetBreakers(breakers)

	gh := github.NewClient(cfg.GitHub.Token)
	gh.SetEndpoint(cfg.GitHub.Endpoint)
	gh.SetBreakers(breakers)

	collector := collect.New(reg, store,
		collect.WithConcurrency(cfg.Fetch.Concurrency),
		collect.WithTimeout(cfg.Fetch.Timeout.Duration),
		collect.WithLogger(logger),
	)

	return &app{
		cfg:      cfg,
		cache:    c,
		breakers: breakers,
		runner:   pipeline.NewRunner(collector, gh, cfg.Packages, logger),
	}, nil
}

// Close releases the cache backend.
func (a *app) Close() error {
	return a.cache.Close()
}

// newCache opens the configured backend. A file backend without a usable
// directory degrades to no caching with a warning.
func newCache(ctx context.Context, cfg *config.Config, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.Cache.MemoryEntries)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	case config.CacheFile:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			logger.Warn("cache directory unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// fileCacheDir returns the configured cache directory or the XDG default.
func fileCacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/packages-status/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
