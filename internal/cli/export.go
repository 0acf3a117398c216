package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/export"
	"github.com/matzehuels/mlviz/pkg/observability"
)

const (
	formatDOT  = "dot"
	formatJSON = "json"
)

// exportCommand exports one diagram through Graphviz or as DOT/JSON.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		output  string
		moves   []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export <method>-<index>",
		Short: "Export one diagram as DOT, SVG, PNG or JSON",
		Long: `Export a single diagram, addressed by method id and combination index
(e.g. regression-0). SVG and PNG are laid out with Graphviz neato at the
diagram's own node positions.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDiagramKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formats := append([]string{formatDOT, formatJSON}, export.Formats...)
			if err := errors.ValidateFormat(format, formats...); err != nil {
				return err
			}
			key, ok := diagram.ParseKey(args[0])
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "diagram key %q: want <method>-<index>", args[0])
			}
			placements, err := parseMoves(moves)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(ctx, cfg)
			if err != nil {
				return err
			}
			set, err := buildSet(cat, key.MethodID, diagram.NewRegistry(c.Logger), nil)
			if err != nil {
				return err
			}
			in, ok := set.Instance(key)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "%s has %d combinations", key.MethodID, len(set.Instances()))
			}
			for id, p := range placements {
				if !in.MoveNode(id, p) {
					printWarning("%s has no node %s", key, id)
				}
			}

			var data []byte
			switch format {
			case formatDOT:
				data = []byte(export.ToDOT(in))
			case formatJSON:
				if data, err = export.JSON(in); err != nil {
					return err
				}
			default:
				store, err := newCache(ctx, cfg, noCache)
				if err != nil {
					return err
				}
				defer store.Close()

				spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s as %s...", key, format))
				spinner.Start()
				start := time.Now()
				data, err = newExporter(cfg, store).Render(ctx, export.ToDOT(in), format)
				observability.Dashboard().OnExport(ctx, format, time.Since(start), err)
				if err != nil {
					interrupted := spinner.Cancelled()
					spinner.StopWithError("Render failed")
					if interrupted {
						return ctx.Err()
					}
					return err
				}
				spinner.Stop()
			}

			if output == "" || output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Exported %s as %s", key, format)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, fmt.Sprintf("output format (%s, %s, %s, %s)", formatDOT, formatJSON, export.FormatSVG, export.FormatPNG))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "place a node before exporting (ID=X,Y, repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
