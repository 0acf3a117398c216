package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/buildinfo"
	"github.com/matzehuels/mlviz/pkg/cache"
	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/charts"
	"github.com/matzehuels/mlviz/pkg/config"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/export"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mlviz"

	// janitorInterval is how often expired dashboard sessions are swept.
	janitorInterval = 5 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mlviz serves interactive neural-network diagrams for ML methods",
		Long:         `mlviz is a dashboard and CLI for exploring machine-learning methods: an overview table, one draggable network diagram per activation combination, and canned result charts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $"+config.EnvVar+", ./mlviz.toml, then the user config dir)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.catalogueCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig reads the configuration selected by --config and the usual
// search path.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("config loaded", "path", cfg.Path)
	}
	return cfg, nil
}

// newCatalogueSource returns the configured catalogue source.
func newCatalogueSource(cfg *config.Config) (catalogue.Source, error) {
	switch cfg.Catalogue.Source {
	case config.SourceEmbedded, "":
		return catalogue.Embedded(), nil
	case config.SourceFile:
		return catalogue.FileSource{Path: cfg.Catalogue.Path}, nil
	case config.SourceMongo:
		return catalogue.MongoSource{
			URI:        cfg.Catalogue.MongoURI,
			Database:   cfg.Catalogue.Database,
			Collection: cfg.Catalogue.Collection,
		}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown catalogue source %q", cfg.Catalogue.Source)
}

// loadCatalogue loads the catalogue from the configured source.
func (c *CLI) loadCatalogue(ctx context.Context, cfg *config.Config) (*catalogue.Catalogue, error) {
	src, err := newCatalogueSource(cfg)
	if err != nil {
		return nil, err
	}
	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	c.Logger.Debug("catalogue loaded", "source", cfg.Catalogue.Source, "methods", cat.Len())
	return cat, nil
}

// newCache returns the configured artifact cache. noCache forces a null
// cache.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone, "":
		return cache.NewNullCache(), nil
	case config.CacheFile:
		return cache.NewFileCache(cfg.Cache.Dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
}

// newKeyer scopes cache keys to the running build.
func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

// newSupplier returns the chart panel supplier, reading through store.
func (c *CLI) newSupplier(ctx context.Context, cfg *config.Config, store cache.Cache) diagram.PanelSupplier {
	return charts.Cached(ctx, charts.CacheOptions{
		Cache:  store,
		Keyer:  newKeyer(),
		TTL:    cfg.Cache.TTL.Duration,
		Logger: c.Logger,
	}, charts.Supplier)
}

// newExporter returns the cached Graphviz renderer.
func newExporter(cfg *config.Config, store cache.Cache) export.Renderer {
	return export.Renderer{Cache: store, Keyer: newKeyer(), TTL: cfg.Cache.TTL.Duration}
}
