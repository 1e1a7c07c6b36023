package records

import (
	"fmt"
	"strings"

	"github.com/bnema/admin-dashboard-cli/internal/adapters/render"
	"github.com/bnema/admin-dashboard-cli/internal/adapters/render/theme"
	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	defaultMaxColumns = 6
	defaultCellWidth  = 32
)

// Page is one fetched page of a resource together with the store's error
// state.
type Page struct {
	Resource    string
	Items       []domain.Record
	Pagination  domain.Pagination
	Err         string
	FieldErrors domain.FieldErrors
}

type RenderOptions struct {
	// Columns pins the displayed columns. Empty means every key, id first.
	Columns    []string
	MaxColumns int
	CellWidth  int
}

func Render(page Page, opts RenderOptions) (string, error) {
	return render.Offscreen(func() string {
		return renderView(page, opts, newStyles(theme.Light))
	})
}

func renderView(page Page, opts RenderOptions, s styles) string {
	p := page.Pagination
	lines := []string{
		s.title.Render(title(page.Resource)),
		s.header.Render(fmt.Sprintf("page %d/%d · %d total · %d per page", p.CurrentPage, p.TotalPages, p.TotalItems, p.ItemsPerPage)),
	}

	if page.Err != "" {
		lines = append(lines, s.errorLine.Render(page.Err))
	}
	if len(page.FieldErrors) > 0 {
		lines = append(lines, fieldErrorLines(page.FieldErrors, s)...)
	}

	if len(page.Items) == 0 {
		lines = append(lines, s.empty.Render(fmt.Sprintf("No %s found.", strings.ToLower(page.Resource))))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(renderTable(page.Items, opts, s)))
	if footer := navigationHint(p); footer != "" {
		lines = append(lines, s.header.Render(footer))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTable(items []domain.Record, opts RenderOptions, s styles) string {
	columns := columnsFor(items, opts)
	cellWidth := opts.CellWidth
	if cellWidth <= 0 {
		cellWidth = defaultCellWidth
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.columnName
			}
			return s.cell
		})

	for _, item := range items {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = render.Truncate(item.String(column), cellWidth)
		}
		t.Row(row...)
	}

	return t.Render()
}

func columnsFor(items []domain.Record, opts RenderOptions) []string {
	if len(opts.Columns) > 0 {
		return opts.Columns
	}

	maxColumns := opts.MaxColumns
	if maxColumns <= 0 {
		maxColumns = defaultMaxColumns
	}

	seen := map[string]struct{}{}
	var columns []string
	for _, item := range items {
		for _, key := range item.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}

	if len(columns) > maxColumns {
		columns = columns[:maxColumns]
	}
	return columns
}

func fieldErrorLines(fields domain.FieldErrors, s styles) []string {
	names := fields.Fields()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, s.field.Render(fmt.Sprintf("%s: %s", name, strings.Join(fields[name], ", "))))
	}
	return lines
}

func navigationHint(p domain.Pagination) string {
	var hints []string
	if p.HasPrevious() {
		hints = append(hints, fmt.Sprintf("--page %d for previous", p.CurrentPage-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("--page %d for next", p.CurrentPage+1))
	}
	return strings.Join(hints, " · ")
}

func title(resource string) string {
	if resource == "" {
		return "Records"
	}
	return strings.ToUpper(resource[:1]) + resource[1:]
}
