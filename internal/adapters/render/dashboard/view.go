package dashboard

import (
	"fmt"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/render"
	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/theme"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type Summary struct {
	User       *domain.UserIdentity
	TotalUsers int
	TotalTasks int
	Errors     []string
}

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	card      lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	errorLine lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		header:    lipgloss.NewStyle().Foreground(p.Muted),
		card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 2).MarginRight(1),
		label:     lipgloss.NewStyle().Foreground(p.Muted),
		value:     lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		errorLine: lipgloss.NewStyle().Bold(true).Foreground(p.Error),
	}
}

func Render(summary Summary) (string, error) {
	return render.Offscreen(func() string {
		return renderView(summary, newStyles(theme.Light))
	})
}

func renderView(summary Summary, s styles) string {
	lines := []string{s.title.Render("Dashboard")}
	if summary.User != nil {
		lines = append(lines, s.header.Render(fmt.Sprintf("signed in as %s", summary.User.DisplayName())))
	}

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		card("Total users", summary.TotalUsers, s),
		card("Total tasks", summary.TotalTasks, s),
	)
	lines = append(lines, cards)

	for _, msg := range summary.Errors {
		lines = append(lines, s.errorLine.Render(msg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func card(label string, value int, s styles) string {
	return s.card.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		s.label.Render(label),
		s.value.Render(humanize.Comma(int64(value))),
	))
}
