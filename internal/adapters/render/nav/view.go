package nav

import (
	"fmt"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/render"
	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/theme"
	"github.com/charmbracelet/lipgloss"
)

// Entry is a menu item with the guard's verdict for its route.
type Entry struct {
	Item     theme.MenuItem
	Path     string
	Allowed  bool
	Redirect string
}

func Render(entries []Entry) (string, error) {
	return render.Offscreen(func() string {
		return renderView(entries, theme.Light)
	})
}

func renderView(entries []Entry, p theme.Palette) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	icon := lipgloss.NewStyle().Foreground(p.Secondary)
	path := lipgloss.NewStyle().Foreground(p.Muted)
	allowed := lipgloss.NewStyle().Foreground(p.Success)
	redirected := lipgloss.NewStyle().Foreground(p.Warning)

	lines := []string{title.Render("Navigation")}
	for _, entry := range entries {
		verdict := allowed.Render("open")
		if !entry.Allowed {
			verdict = redirected.Render(fmt.Sprintf("-> %s", entry.Redirect))
		}

		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			icon.Render(theme.Glyph(entry.Item.Icon)),
			" ",
			lipgloss.NewStyle().Width(10).Render(entry.Item.Title),
			path.Render(lipgloss.NewStyle().Width(11).Render(entry.Path)),
			verdict,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
