package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonRed     = lipgloss.Color("#FF3131")
	dimWhite    = lipgloss.Color("#B0B0B0")
)

// styles groups the lipgloss styles bound to one output renderer
type styles struct {
	label     lipgloss.Style
	progress  lipgloss.Style
	timing    lipgloss.Style
	separator lipgloss.Style
	prompt    lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	err       lipgloss.Style
}

// newStyles builds styles for w. The renderer detects the color profile of w,
// so writers that are not terminals get plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		label:     r.NewStyle().Foreground(neonCyan).Bold(true),
		progress:  r.NewStyle().Foreground(neonGreen),
		timing:    r.NewStyle().Foreground(dimWhite),
		separator: r.NewStyle().Foreground(neonMagenta),
		prompt:    r.NewStyle().Foreground(neonYellow).Bold(true),
		success:   r.NewStyle().Foreground(neonGreen).Bold(true),
		warning:   r.NewStyle().Foreground(neonYellow),
		err:       r.NewStyle().Foreground(neonRed).Bold(true),
	}
}
