package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/trainpi/internal/models"
)

// styles renders status labels and notices. The renderer follows the
// output writer, so piped output carries no escape codes.
type styles struct {
	open    lipgloss.Style
	cleared lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	border  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		open:    r.NewStyle().Foreground(lipgloss.Color("#E5534B")).Bold(true),
		cleared: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#D29922")),
		border:  r.NewStyle().Foreground(lipgloss.Color("#6E7681")),
	}
}

func (s styles) status(st models.Status) string {
	if st == models.StatusCleared {
		return s.cleared.Render(string(st))
	}
	return s.open.Render(string(st))
}
