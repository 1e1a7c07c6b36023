package records

import (
	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/theme"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	cell       lipgloss.Style
	columnName lipgloss.Style
	border     lipgloss.Style
	empty      lipgloss.Style
	errorLine  lipgloss.Style
	field      lipgloss.Style
	section    lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		header:     lipgloss.NewStyle().Foreground(p.Muted),
		cell:       lipgloss.NewStyle().Padding(0, 1),
		columnName: lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(p.Primary),
		border:     lipgloss.NewStyle().Foreground(p.Border),
		empty:      lipgloss.NewStyle().Faint(true),
		errorLine:  lipgloss.NewStyle().Bold(true).Foreground(p.Error),
		field:      lipgloss.NewStyle().Foreground(p.Warning),
		section:    lipgloss.NewStyle().MarginTop(1),
	}
}
