package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/config"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
)

// catalogueCommand groups catalogue inspection and seeding.
func (c *CLI) catalogueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "Inspect or seed method records",
	}

	cmd.AddCommand(c.catalogueListCommand())
	cmd.AddCommand(c.catalogueSeedCommand())

	return cmd
}

func (c *CLI) catalogueListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List methods, their archetype and combinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			reg := diagram.NewRegistry(c.Logger)
			for _, m := range cat.Methods() {
				fmt.Fprintf(stdout, "%s  %s\n", StyleHighlight.Render(fmt.Sprintf("%-16s", m.ID)), StyleValue.Render(m.Method))
				printDetail("archetype %s · %d combinations", reg.ForMethod(&m).Archetype(), len(m.Combinations))
				for i, combo := range m.Combinations {
					printDetail("  %s", combo.Title(i))
				}
			}
			return nil
		},
	}
}

func (c *CLI) catalogueSeedCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the catalogue to the configured MongoDB collection",
		Long: `Replace the configured MongoDB collection with a catalogue, by default the
embedded one. Requires catalogue.mongo_uri in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Catalogue.MongoURI == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "catalogue.mongo_uri is not set")
			}

			var src catalogue.Source = catalogue.Embedded()
			if from != "" {
				src = catalogue.FileSource{Path: from}
			}
			cat, err := src.Load(ctx)
			if err != nil {
				return err
			}

			target := catalogue.MongoSource{
				URI:        cfg.Catalogue.MongoURI,
				Database:   cfg.Catalogue.Database,
				Collection: cfg.Catalogue.Collection,
			}
			prog := newProgress(c.Logger)
			if err := target.Seed(ctx, cat); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Seeded %d methods", cat.Len()))
			printSuccess("Catalogue written to %s.%s", cfg.Catalogue.Database, cfg.Catalogue.Collection)
			if cfg.Catalogue.Source != config.SourceMongo {
				printNextStep("Serve from MongoDB by setting", `catalogue.source = "mongo"`)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "YAML catalogue to seed (default: embedded)")

	return cmd
}
