package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/diagram"
)

// layoutsCommand lists the topology templates and the methods using each.
func (c *CLI) layoutsCommand() *cobra.Command {
	var showNodes bool

	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List network topology templates",
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
			users := make(map[diagram.Archetype][]string)
			for _, m := range cat.Methods() {
				a := reg.ForMethod(&m).Archetype()
				users[a] = append(users[a], m.ID)
			}

			for i, a := range diagram.Archetypes {
				if i > 0 {
					fmt.Fprintln(stdout)
				}
				topo := diagram.LayoutFor(a)
				fmt.Fprintln(stdout, StyleTitle.Render(string(a)))
				printStats(string(a), topo.NodeCount(), topo.EdgeCount())
				methods := "none"
				if len(users[a]) > 0 {
					methods = strings.Join(users[a], ", ")
				}
				printKeyValue("  methods", methods)
				if showNodes {
					for _, n := range topo.Nodes() {
						printDetail("%-4s %-10s (%g, %g) r=%g", n.ID, n.Visual.Role, n.Position.X, n.Position.Y, n.Visual.Radius)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showNodes, "nodes", false, "list node positions")

	return cmd
}
