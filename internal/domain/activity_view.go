package domain

import "strings"

// ActivityView is an immutable snapshot of a loaded activity list plus the
// filter state. Every derived value is recomputed from it on read.
type ActivityView struct {
	Activities   []Activity
	SearchQuery  string
	SelectedType string
	CurrentPage  int
	ItemsPerPage int
}

func (v ActivityView) matches(activity Activity) bool {
	query := strings.ToLower(v.SearchQuery)
	matchesSearch := strings.Contains(strings.ToLower(activity.Description), query) ||
		(activity.Causer != nil && strings.Contains(strings.ToLower(activity.Causer.Name), query))
	if !matchesSearch {
		return false
	}

	return v.SelectedType == "" || v.SelectedType == ActivityTypeAll || activity.Type == v.SelectedType
}

// Filtered keeps fetch order.
func (v ActivityView) Filtered() []Activity {
	filtered := make([]Activity, 0, len(v.Activities))
	for _, activity := range v.Activities {
		if v.matches(activity) {
			filtered = append(filtered, activity)
		}
	}
	return filtered
}

func (v ActivityView) TotalFilteredCount() int {
	count := 0
	for _, activity := range v.Activities {
		if v.matches(activity) {
			count++
		}
	}
	return count
}

// VisiblePage is the current page window over Filtered. A page outside the
// filtered range is empty.
func (v ActivityView) VisiblePage() []Activity {
	if v.CurrentPage < 1 || v.ItemsPerPage <= 0 {
		return []Activity{}
	}

	filtered := v.Filtered()
	start := (v.CurrentPage - 1) * v.ItemsPerPage
	if start >= len(filtered) {
		return []Activity{}
	}
	end := min(start+v.ItemsPerPage, len(filtered))

	return filtered[start:end]
}

// TotalPages is zero when nothing matches.
func (v ActivityView) TotalPages() int {
	return PageCount(v.TotalFilteredCount(), v.ItemsPerPage)
}
