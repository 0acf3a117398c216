package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlviz/pkg/catalogue"
	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/geom"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Canvas geometry: one cell covers canvasCellX by canvasCellY diagram units.
const (
	canvasCellX = 5.0
	canvasCellY = 10.0
	nudgeStep   = 5.0

	// keyboardPointer is the pointer id used for keyboard nudges.
	keyboardPointer diagram.PointerID = 1
)

// browseCommand opens the terminal diagram browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "browse [method]",
		Short:             "Explore and drag diagrams in the terminal",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeMethods,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			m := NewBrowseModel(cat, diagram.NewRegistry(c.Logger))
			if len(args) == 1 {
				m = m.selectMethod(args[0])
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// BrowseModel - Interactive diagram browser
// =============================================================================

// BrowseModel is the bubbletea model for the diagram browser. Keyboard nudges
// go through the same pointer press, move and release path as the dashboard.
type BrowseModel struct {
	cat     *catalogue.Catalogue
	methods []catalogue.MethodRecord
	set     *diagram.Set

	Method   int // index into methods, -1 for none
	Instance int
	Node     int
	status   string
}

// NewBrowseModel creates a browser with nothing selected.
func NewBrowseModel(cat *catalogue.Catalogue, reg *diagram.Registry) BrowseModel {
	return BrowseModel{
		cat:     cat,
		methods: cat.Methods(),
		set:     diagram.NewSet(reg, nil),
		Method:  -1,
	}
}

// selectMethod applies a selection toggle, reseeding the set.
func (m BrowseModel) selectMethod(id string) BrowseModel {
	current := ""
	if m.Method >= 0 {
		current = m.methods[m.Method].ID
	}
	next, rec := catalogue.Select(m.cat, current, id)
	m.set.Reseed(rec)
	m.Method, m.Instance, m.Node = -1, 0, 0
	for i := range m.methods {
		if m.methods[i].ID == next {
			m.Method = i
		}
	}
	m.status = ""
	return m
}

func (m BrowseModel) current() *diagram.Instance {
	ins := m.set.Instances()
	if m.Instance < 0 || m.Instance >= len(ins) {
		return nil
	}
	return ins[m.Instance]
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if len(m.methods) == 0 {
		return m, tea.Quit
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "]", "pgdown":
		m = m.selectMethod(m.methods[(m.Method+1)%len(m.methods)].ID)
	case "[", "pgup":
		i := m.Method - 1
		if i < 0 {
			i = len(m.methods) - 1
		}
		m = m.selectMethod(m.methods[i].ID)
	case "enter", " ":
		if m.Method >= 0 {
			m = m.selectMethod(m.methods[m.Method].ID)
		}
	case "tab":
		if n := len(m.set.Instances()); n > 0 {
			m.Instance, m.Node = (m.Instance+1)%n, 0
		}
	case "shift+tab":
		if n := len(m.set.Instances()); n > 0 {
			m.Instance, m.Node = (m.Instance+n-1)%n, 0
		}
	case "n":
		if t := m.set.Topology(); t != nil {
			m.Node = (m.Node + 1) % t.NodeCount()
		}
	case "N":
		if t := m.set.Topology(); t != nil {
			m.Node = (m.Node + t.NodeCount() - 1) % t.NodeCount()
		}
	case "r":
		if m.Method >= 0 {
			m.set.Reseed(&m.methods[m.Method])
			m.status = "reset"
		}
	case "up", "k":
		m = m.nudge(geom.Point{Y: -nudgeStep})
	case "down", "j":
		m = m.nudge(geom.Point{Y: nudgeStep})
	case "left", "h":
		m = m.nudge(geom.Point{X: -nudgeStep})
	case "right", "l":
		m = m.nudge(geom.Point{X: nudgeStep})
	}
	return m, nil
}

// nudge drags the selected node by delta with a press, move and release.
func (m BrowseModel) nudge(delta geom.Point) BrowseModel {
	in := m.current()
	if in == nil {
		return m
	}
	node := in.Topology().Nodes()[m.Node]
	at, _ := in.Position(node.ID)
	press := diagram.PointerEvent{PointerID: keyboardPointer, Client: at}
	if !in.PointerDown(press, node.ID) {
		m.status = "node is held"
		return m
	}
	release := diagram.PointerEvent{PointerID: keyboardPointer, Client: at.Add(delta)}
	in.PointerMove(release)
	in.PointerUp(release)
	p, _ := in.Position(node.ID)
	m.status = fmt.Sprintf("%s → (%g, %g)", node.ID, p.X, p.Y)
	return m
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Neural Network Diagrams"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("[/] method  ⏎ toggle  tab diagram  n node  ←↑↓→ drag  r reset  q quit"))
	b.WriteString("\n\n")

	for i, rec := range m.methods {
		label := " " + rec.Method + " "
		if i == m.Method {
			b.WriteString(listSelectedStyle.Render("[" + rec.Method + "]"))
		} else {
			b.WriteString(listNormalStyle.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	in := m.current()
	if in == nil {
		b.WriteString(listDimStyle.Render(m.set.Placeholder()))
		b.WriteString("\n")
		return b.String()
	}

	ins := m.set.Instances()
	b.WriteString(StyleHighlight.Render(in.Combination().Title(in.Key().Index)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Instance+1, len(ins))))
	b.WriteString("\n")
	if ex := in.Combination().BiologicalExample; ex != "" {
		b.WriteString(listDimStyle.Render(ex))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	selected := in.Topology().Nodes()[m.Node].ID
	b.WriteString(renderCanvas(in, selected))
	b.WriteString("\n")
	b.WriteString(nodeTable(in, selected))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(listDimStyle.Render("  " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Rendering helpers
// =============================================================================

// renderCanvas draws the diagram as text: edges as dots, nodes as their ids.
func renderCanvas(in *diagram.Instance, selected diagram.NodeID) string {
	w := int(diagram.ViewportWidth/canvasCellX) + 1
	h := int(diagram.ViewportHeight/canvasCellY) + 1
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", w))
	}
	cell := func(p geom.Point) (int, int, bool) {
		x, y := int(math.Round(p.X/canvasCellX)), int(math.Round(p.Y/canvasCellY))
		return x, y, x >= 0 && x < w && y >= 0 && y < h
	}

	for _, e := range in.Edges() {
		steps := int(math.Max(math.Abs(e.X2-e.X1)/canvasCellX, math.Abs(e.Y2-e.Y1)/canvasCellY))
		mark := '·'
		if e.Feedback {
			mark = '~'
		}
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			if x, y, ok := cell(geom.Point{X: e.X1 + t*(e.X2-e.X1), Y: e.Y1 + t*(e.Y2-e.Y1)}); ok {
				grid[y][x] = mark
			}
		}
	}

	var labels []struct {
		x, y int
		id   diagram.NodeID
	}
	for _, n := range in.Nodes() {
		x, y, ok := cell(n.Position)
		if !ok {
			continue
		}
		for i, r := range string(n.ID) {
			if x+i < w {
				grid[y][x+i] = r
			}
		}
		labels = append(labels, struct {
			x, y int
			id   diagram.NodeID
		}{x, y, n.ID})
	}

	lines := make([]string, h)
	for y, row := range grid {
		line := string(row)
		for _, l := range labels {
			if l.y == y && l.id == selected {
				prefix := string(row[:l.x])
				end := min(l.x+len(l.id), len(row))
				line = prefix + listSelectedStyle.Render(string(row[l.x:end])) + string(row[end:])
			}
		}
		lines[y] = line
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Render(strings.Join(lines, "\n"))
}

// nodeTable lists node positions, highlighting the selected node.
func nodeTable(in *diagram.Instance, selected diagram.NodeID) string {
	nodes := in.Nodes()
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{string(n.ID), n.Visual.Role.Label(), fmt.Sprintf("%g", n.Position.X), fmt.Sprintf("%g", n.Position.Y)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Role", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(nodes) && nodes[row].ID == selected {
				return listSelectedStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(nodes[row].Visual.Fill))
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
