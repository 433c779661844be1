package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/internal/config"
	"github.com/matzehuels/bilateral/internal/server"
	"github.com/matzehuels/bilateral/pkg/observability"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the solver over HTTP until interrupted.

  POST /v1/solve               solve a dataset (text body, or JSON with
                               Content-Type: application/json)
  GET  /v1/solves[/{id}]       archived solves
  GET  /v1/solves/{id}/render  draw an archived solve (?format=svg|dot)
  GET  /healthz                liveness
  GET  /metrics                Prometheus metrics

Solves are archived in MongoDB when store.mongo_uri is configured and in
memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	ch, err := cfg.Cache.Open(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, cfg.Cache.Keyer(), c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	defer runner.Close()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	metrics := server.NewMetrics(prometheus.DefaultRegisterer)
	observability.SetSolverHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)

	c.Logger.Info("starting server", "cache", cfg.Cache.Backend, "store", storeKind(cfg.Store))
	srv := server.New(server.Config{
		Runner:       runner,
		Store:        st,
		Logger:       c.Logger,
		Defaults:     cfg.PipelineOptions(),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Duration)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	if cfg.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func storeKind(cfg config.StoreConfig) string {
	if cfg.MongoURI == "" {
		return "memory"
	}
	return "mongo"
}
