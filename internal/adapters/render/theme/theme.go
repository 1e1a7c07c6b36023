package theme

import (
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Info       lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

var Light = Palette{
	Primary:    lipgloss.Color("#8B5CF6"),
	Secondary:  lipgloss.Color("#F472B6"),
	Success:    lipgloss.Color("#10B981"),
	Info:       lipgloss.Color("#0EA5E9"),
	Warning:    lipgloss.Color("#FBBF24"),
	Error:      lipgloss.Color("#EF4444"),
	Background: lipgloss.Color("#FAFAFA"),
	Surface:    lipgloss.Color("#FFFFFF"),
	Text:       lipgloss.Color("#18181B"),
	Muted:      lipgloss.Color("#6B7280"),
	Border:     lipgloss.Color("#E5E7EB"),
}

// Color resolves a semantic color name. Unknown names fall back to
// Primary.
func (p Palette) Color(name string) lipgloss.Color {
	switch name {
	case "secondary":
		return p.Secondary
	case "success":
		return p.Success
	case "info":
		return p.Info
	case "warning":
		return p.Warning
	case "error":
		return p.Error
	case "background":
		return p.Background
	case "surface":
		return p.Surface
	case "text":
		return p.Text
	case "muted":
		return p.Muted
	case "border":
		return p.Border
	default:
		return p.Primary
	}
}

type MenuItem struct {
	Title string
	Route domain.RouteName
	Icon  string
}

var NavMenu = []MenuItem{
	{Title: "Home", Route: domain.RouteRoot, Icon: "ri-dashboard-line"},
	{Title: "Tasks", Route: domain.RouteTasks, Icon: "ri-task-line"},
	{Title: "Activity", Route: domain.RouteActivity, Icon: "ri-time-line"},
	{Title: "Users", Route: domain.RouteUsers, Icon: "ri-user-line"},
	{Title: "Roles", Route: domain.RouteRoles, Icon: "ri-shield-user-line"},
}

var glyphs = map[string]string{
	"ri-add-circle-line":  "+",
	"ri-edit-2-line":      "~",
	"ri-delete-bin-line":  "x",
	"ri-information-line": "i",
	"ri-dashboard-line":   "#",
	"ri-task-line":        "*",
	"ri-time-line":        "@",
	"ri-user-line":        "&",
	"ri-shield-user-line": "%",
}

// Glyph is the single character terminal stand-in for an icon name.
func Glyph(icon string) string {
	if glyph, ok := glyphs[icon]; ok {
		return glyph
	}
	return "-"
}
