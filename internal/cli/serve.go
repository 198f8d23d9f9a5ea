package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhagedorn/wirecat/internal/config"
	"github.com/jhagedorn/wirecat/pkg/cache"
	"github.com/jhagedorn/wirecat/pkg/server"
)

// newServeCmd creates the serve command for running the diagram HTTP server.
// Storage and cache backends come from the config file; --addr overrides the
// listen address.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

// runServe builds the configured store and cache, then serves until ctx is
// cancelled.
func runServe(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := newCache(ctx, cfg)
	if err != nil {
		logger.Warn("cache unavailable, rendering uncached", "error", err)
		c = cache.NewNullCache()
	}
	defer c.Close()

	srv := server.New(server.Config{
		Store:  store,
		Cache:  c,
		Logger: logger,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// newStore builds the diagram store selected by the config.
func newStore(ctx context.Context, cfg *config.Config) (server.Store, error) {
	switch cfg.Server.Store.Backend {
	case "", "memory":
		return server.NewMemoryStore(), nil
	case "mongo":
		return server.NewMongoStore(ctx, server.MongoConfig{URI: cfg.Server.Store.MongoURI})
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be 'memory' or 'mongo')", cfg.Server.Store.Backend)
	}
}

// newCache builds the render cache selected by the config.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "memory":
		return cache.NewMemoryCache(cfg.Cache.Size)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case "", "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (must be 'file', 'memory', 'redis', or 'none')", cfg.Cache.Backend)
	}
}
