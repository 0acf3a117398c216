package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/geom"
)

// renderCommand writes every diagram of a method, and its chart panels, as
// SVG files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		moves   []string
		noPanel bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render <method>",
		Short: "Write a method's network diagrams and charts as SVG",
		Long: `Render one SVG per activation combination of a method, plus its chart panel.

Nodes can be placed before rendering with --move, e.g. --move H2=200,70.
Moves apply to every combination.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMethods,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(ctx, cfg)
			if err != nil {
				return err
			}
			placements, err := parseMoves(moves)
			if err != nil {
				return err
			}
			store, err := newCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			var supplier diagram.PanelSupplier
			if !noPanel {
				supplier = c.newSupplier(ctx, cfg, store)
			}
			set, err := buildSet(cat, args[0], diagram.NewRegistry(c.Logger), supplier)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(output, 0o755); err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			topo := set.Topology()
			printStats(string(topo.Archetype()), topo.NodeCount(), topo.EdgeCount())

			for _, in := range set.Instances() {
				for id, p := range placements {
					if !in.MoveNode(id, p) {
						printWarning("%s has no node %s", in.Key(), id)
					}
				}
				path := filepath.Join(output, in.Key().String()+".svg")
				if err := os.WriteFile(path, in.SVG(), 0o644); err != nil {
					return err
				}
				printFile(path)

				if p := in.Panel(); p != nil {
					var buf bytes.Buffer
					if _, err := p.WriteTo(&buf); err != nil {
						return fmt.Errorf("render panel for %s: %w", in.Key(), err)
					}
					path := filepath.Join(output, in.Key().String()+"-chart.svg")
					if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
						return err
					}
					printFile(path)
				}
			}
			prog.done(fmt.Sprintf("Rendered %d diagrams for %s", len(set.Instances()), set.Method().Method))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "place a node before rendering (ID=X,Y, repeatable)")
	cmd.Flags().BoolVar(&noPanel, "no-panel", false, "skip chart panels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// buildSet seeds a diagram set for methodID.
func buildSet(cat *catalogue.Catalogue, methodID string, reg *diagram.Registry, supplier diagram.PanelSupplier) (*diagram.Set, error) {
	rec := catalogue.Resolve(cat, methodID)
	if rec == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown method %q", methodID)
	}
	set := diagram.NewSet(reg, supplier)
	set.Reseed(rec)
	return set, nil
}

// parseMoves parses ID=X,Y placements.
func parseMoves(specs []string) (map[diagram.NodeID]geom.Point, error) {
	out := make(map[diagram.NodeID]geom.Point, len(specs))
	for _, s := range specs {
		id, xy, ok := strings.Cut(s, "=")
		if !ok || id == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "move %q: want ID=X,Y", s)
		}
		xs, ys, ok := strings.Cut(xy, ",")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "move %q: want ID=X,Y", s)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX != nil || errY != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "move %q: coordinates must be numbers", s)
		}
		out[diagram.NodeID(id)] = geom.Point{X: x, Y: y}
	}
	return out, nil
}
