package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/internal/server"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/session"
)

// serveCommand creates the serve command, which runs the dashboard.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive dashboard",
		Long:  `Serve the dashboard: overview table, method buttons and one draggable network diagram per activation combination.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			cat, err := c.loadCatalogue(ctx, cfg)
			if err != nil {
				return err
			}
			store, err := newCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			if logger.GetLevel() <= LogDebug {
				installLogHooks(logger)
			}

			ttl := cfg.Server.SessionTTL.Duration
			sessions := session.NewMemoryStore(ttl)
			go session.Janitor(ctx, sessions, janitorInterval)

			srv := server.New(server.Options{
				Catalogue:  cat,
				Store:      sessions,
				Registry:   diagram.NewRegistry(logger),
				Supplier:   c.newSupplier(ctx, cfg, store),
				Exporter:   newExporter(cfg, store),
				Logger:     logger,
				SessionTTL: ttl,
			})

			printInfo("Dashboard at %s", StyleHighlight.Render("http://"+cfg.Server.Addr))
			printDetail("%d methods · cache: %s", cat.Len(), cfg.Cache.Backend)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
