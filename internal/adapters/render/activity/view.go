package activity

import (
	"fmt"
	"time"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/render"
	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/theme"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now   time.Time
	Err   string
	Width int
}

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	description lipgloss.Style
	meta        lipgloss.Style
	empty       lipgloss.Style
	errorLine   lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		header:      lipgloss.NewStyle().Foreground(p.Muted),
		description: lipgloss.NewStyle(),
		meta:        lipgloss.NewStyle().Foreground(p.Muted),
		empty:       lipgloss.NewStyle().Faint(true),
		errorLine:   lipgloss.NewStyle().Bold(true).Foreground(p.Error),
	}
}

func Render(view domain.ActivityView, opts RenderOptions) (string, error) {
	return render.Offscreen(func() string {
		return renderView(view, opts, theme.Light, newStyles(theme.Light))
	})
}

func renderView(view domain.ActivityView, opts RenderOptions, palette theme.Palette, s styles) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	lines := []string{
		s.title.Render("Activity"),
		s.header.Render(summary(view)),
	}
	if opts.Err != "" {
		lines = append(lines, s.errorLine.Render(opts.Err))
	}

	page := view.VisiblePage()
	if len(page) == 0 {
		lines = append(lines, s.empty.Render("No activities match."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, activity := range page {
		lines = append(lines, renderEntry(activity, now, opts.Width, palette, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderEntry(activity domain.Activity, now time.Time, width int, palette theme.Palette, s styles) string {
	style := domain.Classify(activity)
	glyph := lipgloss.NewStyle().Bold(true).Foreground(palette.Color(style.Color)).Render(theme.Glyph(style.Icon))

	description := activity.Description
	if width > 0 {
		description = render.Truncate(description, width)
	}

	meta := domain.RelativeTime(activity.Timestamp, now)
	if name := activity.CauserName(); name != "" {
		meta = fmt.Sprintf("by %s · %s", name, meta)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		glyph,
		" ",
		s.description.Render(description),
		"  ",
		s.meta.Render(meta),
	)
}

func summary(view domain.ActivityView) string {
	text := fmt.Sprintf("%d matching · page %d/%d", view.TotalFilteredCount(), view.CurrentPage, max(view.TotalPages(), 1))
	if view.SearchQuery != "" {
		text += fmt.Sprintf(" · search %q", view.SearchQuery)
	}
	if view.SelectedType != "" && view.SelectedType != domain.ActivityTypeAll {
		text += " · type " + view.SelectedType
	}
	return text
}
