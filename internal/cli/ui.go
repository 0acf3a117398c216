package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mlviz/pkg/diagram"
)

// stdout receives all human-readable command output.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

// Accent colours reuse the diagram role fills.
var (
	colorAccent = lipgloss.Color(diagram.RoleInput.Fill())
	colorOK     = lipgloss.Color(diagram.RoleHidden.Fill())
	colorWarn   = lipgloss.Color(diagram.RoleBottleneck.Fill())
	colorErr    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)

	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// =============================================================================
// Status lines
// =============================================================================

// mark is the leading icon of a status line.
type mark struct {
	icon  string
	style lipgloss.Style
	tint  bool // also colour the message
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorOK), false}
	markError   = mark{"✗", lipgloss.NewStyle().Foreground(colorErr), false}
	markWarning = mark{"!", lipgloss.NewStyle().Foreground(colorWarn), true}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorGray), false}
)

func (m mark) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if m.tint {
		msg = m.style.Render(msg)
	}
	fmt.Fprintln(stdout, m.style.Render(m.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { markSuccess.print(format, args...) }
func printError(format string, args ...any)   { markError.print(format, args...) }
func printWarning(format string, args ...any) { markWarning.print(format, args...) }
func printInfo(format string, args ...any)    { markInfo.print(format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "  feedforward · 7 nodes · 12 edges".
func printStats(archetype string, nodes, edges int) {
	fmt.Fprintln(stdout, "  "+StyleHighlight.Render(archetype)+
		StyleDim.Render(fmt.Sprintf(" · %d nodes · %d edges", nodes, edges)))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+StyleHighlight.Render(cmd))
}
