package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/circlepack/pkg/pipeline"
	"github.com/matzehuels/circlepack/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the packing API over HTTP",
		Long: `Serve the packing API over HTTP.

Routes:
  GET  /healthz
  POST /v1/pack         {"radii": [...], "ratio": 1.5, "seed": 42}
  POST /v1/pack/batch   {"jobs": [{"id": "a", "radii": [...]}, ...]}
  POST /v1/cards        {"cards": [...], "width": 800, "height": 600}
  POST /v1/keywords     {"keywords": {...}, "clusters": {...}}

The cache backend, timeouts and batch concurrency come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Options{
				Addr:         addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				BatchLimit:   cfg.Server.BatchLimit,
				Defaults: pipeline.Options{
					Ratio:     cfg.Pack.Ratio,
					Seed:      cfg.Pack.Seed,
					Width:     cfg.Cards.Width,
					Height:    cfg.Cards.Height,
					Gap:       cfg.Cards.Gap,
					Threshold: cfg.Keywords.Threshold,
					Padding:   cfg.Keywords.Padding,
					Logger:    c.Logger,
				},
			})
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
