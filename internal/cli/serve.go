package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/internal/server"
	"github.com/matzehuels/stackplot/pkg/cache"
	"github.com/matzehuels/stackplot/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API until interrupted. Rendered artifacts are cached in
memory, or in Redis with --redis, unless --no-cache is set.

Routes:
  POST /v1/figures   compose a figure from an inline template and data
  GET  /v1/scales    list the supported color scales
  GET  /v1/units     list the unit conversion codes
  GET  /healthz      liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.serverCache(cmd.Context(), redisURL)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(pipeline.NewRunner(store, c.keyer(), c.Logger), c.Logger)
			err = srv.ListenAndServe(cmd.Context(), addr)
			if errors.Is(err, context.Canceled) {
				printInfo("Server stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "share the artifact cache through Redis (e.g. redis://localhost:6379/0)")

	return cmd
}

// serverCache picks the artifact cache backend of the HTTP server.
func (c *CLI) serverCache(ctx context.Context, redisURL string) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.NewNullCache(), nil
	case redisURL != "":
		store, err := cache.NewRedisCache(ctx, redisURL, appName+":")
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis artifact cache")
		return store, nil
	}
	return cache.NewMemoryCache(0), nil
}
