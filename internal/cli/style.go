package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type theme struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	Help    lipgloss.Style
	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// newTheme binds the styles to w so colors are dropped when w is not a
// terminal.
func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	return theme{
		Title:   r.NewStyle().Bold(true),
		Path:    r.NewStyle().Foreground(lipgloss.Color("63")),
		Help:    r.NewStyle().Faint(true),
		OK:      r.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}
