package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/catalogue"
)

// tableCommand prints the method overview table.
func (c *CLI) tableCommand() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the method overview table",
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
			cols, err := selectColumns(columns)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, colorKey())
			fmt.Fprintln(stdout, overviewTable(cat, cols))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "column classes to show (loss, activation, optimizer, dataset, metric, regularization, architecture)")

	return cmd
}

// selectColumns filters catalogue.Columns by class, keeping display order.
func selectColumns(classes []string) ([]catalogue.Column, error) {
	if len(classes) == 0 {
		return catalogue.Columns, nil
	}
	want := make(map[string]bool, len(classes))
	for _, c := range classes {
		if _, ok := swatchColor(c); !ok {
			return nil, fmt.Errorf("unknown column class %q", c)
		}
		want[c] = true
	}
	var out []catalogue.Column
	for _, col := range catalogue.Columns {
		if want[col.Class] {
			out = append(out, col)
		}
	}
	return out, nil
}

func swatchColor(class string) (lipgloss.Color, bool) {
	for _, s := range catalogue.TextColors {
		if s.Class == class {
			return lipgloss.Color(s.Color), true
		}
	}
	return "", false
}

// colorKey renders the text colour legend on one line.
func colorKey() string {
	parts := make([]string, len(catalogue.TextColors))
	for i, s := range catalogue.TextColors {
		parts[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(s.Label)
	}
	return strings.Join(parts, StyleDim.Render("  ·  "))
}

// overviewTable renders one row per method with each value on its own line.
func overviewTable(cat *catalogue.Catalogue, cols []catalogue.Column) string {
	methods := cat.Methods()
	headers := []string{"Method"}
	for _, col := range cols {
		headers = append(headers, col.Header)
	}
	rows := make([][]string, len(methods))
	for i := range methods {
		row := []string{methods[i].Method}
		for _, col := range cols {
			row = append(row, strings.Join(col.Values(&methods[i]), "\n"))
		}
		rows[i] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cell.Bold(true).Foreground(colorWhite)
			}
			if color, ok := swatchColor(cols[col-1].Class); ok {
				return cell.Foreground(color)
			}
			return cell
		}).
		Render()
}
