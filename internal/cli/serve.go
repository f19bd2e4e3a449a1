package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/porelab/porenet/internal/api"
	"github.com/porelab/porenet/pkg/cache"
	"github.com/porelab/porenet/pkg/pipeline"
	"github.com/porelab/porenet/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		storeDir string
		mongoURL string
		mongoDB  string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

The server exposes the pipeline over HTTP: network generation,
coordination reduction, mixture resolution, and project CRUD. Projects
are stored on disk by default; --mongo-url switches to MongoDB. Stage
results are cached on disk by default; --redis-url switches to Redis.

The server shuts down gracefully on SIGINT and SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveParams{
				addr:     addr,
				storeDir: storeDir,
				mongoURL: mongoURL,
				mongoDB:  mongoDB,
				redisURL: redisURL,
				noCache:  noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "project store directory (default ~/.config/porenet/projects)")
	cmd.Flags().StringVar(&mongoURL, "mongo-url", "", "MongoDB connection string (overrides --store-dir)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "porenet", "MongoDB database name")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis connection string for the stage cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable stage caching")

	return cmd
}

// serveParams bundles the serve command flags.
type serveParams struct {
	addr     string
	storeDir string
	mongoURL string
	mongoDB  string
	redisURL string
	noCache  bool
}

// runServe wires the cache, store, and router together and serves until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	stageCache, err := c.serveCache(ctx, p)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, p)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(stageCache, nil, c.Logger)
	defer runner.Close()

	server := &http.Server{
		Addr:              p.addr,
		Handler:           api.NewServer(runner, st, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", p.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// serveCache selects the stage cache backend from the flags.
func (c *CLI) serveCache(ctx context.Context, p serveParams) (cache.Cache, error) {
	if p.noCache {
		return cache.NewNullCache(), nil
	}
	if p.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, p.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache")
		return rc, nil
	}
	return c.newCache(false)
}

// serveStore selects the project store backend from the flags.
func (c *CLI) serveStore(ctx context.Context, p serveParams) (store.Store, error) {
	if p.mongoURL != "" {
		ms, err := store.NewMongoStore(ctx, p.mongoURL, p.mongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		c.Logger.Info("using mongo store", "database", p.mongoDB)
		return ms, nil
	}
	return newStore(p.storeDir)
}
