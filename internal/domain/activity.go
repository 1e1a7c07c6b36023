package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Causer struct {
	ID   EntityID `json:"id,omitempty"`
	Name string   `json:"name"`
}

// Activity is an immutable entry of the activity log.
type Activity struct {
	ID          EntityID `json:"id,omitempty"`
	Description string   `json:"description"`
	Causer      *Causer  `json:"causer,omitempty"`
	Type        string   `json:"type,omitempty"`
	Timestamp   string   `json:"created_at"`
}

func (a Activity) CauserName() string {
	if a.Causer == nil {
		return ""
	}
	return a.Causer.Name
}

type ActivityCategory string

const (
	CategoryCreate  ActivityCategory = "create"
	CategoryUpdate  ActivityCategory = "update"
	CategoryDelete  ActivityCategory = "delete"
	CategoryDefault ActivityCategory = "default"
)

// ActivityTypeAll disables the type filter.
const ActivityTypeAll = "all"

func ParseActivityType(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", ActivityTypeAll:
		return ActivityTypeAll, nil
	case string(CategoryCreate), string(CategoryUpdate), string(CategoryDelete), string(CategoryDefault):
		return value, nil
	default:
		return "", fmt.Errorf("unsupported activity type %q", raw)
	}
}

type CategoryStyle struct {
	Icon  string
	Color string
}

var categoryStyles = map[ActivityCategory]CategoryStyle{
	CategoryCreate:  {Icon: "ri-add-circle-line", Color: "success"},
	CategoryUpdate:  {Icon: "ri-edit-2-line", Color: "info"},
	CategoryDelete:  {Icon: "ri-delete-bin-line", Color: "error"},
	CategoryDefault: {Icon: "ri-information-line", Color: "primary"},
}

func (c ActivityCategory) Style() CategoryStyle {
	if style, ok := categoryStyles[c]; ok {
		return style
	}
	return categoryStyles[CategoryDefault]
}

// CategoryOf matches the description against "created", "updated" and
// "deleted" in that order; the first hit wins.
func CategoryOf(description string) ActivityCategory {
	lowered := strings.ToLower(description)
	switch {
	case strings.Contains(lowered, "created"):
		return CategoryCreate
	case strings.Contains(lowered, "updated"):
		return CategoryUpdate
	case strings.Contains(lowered, "deleted"):
		return CategoryDelete
	default:
		return CategoryDefault
	}
}

func Classify(activity Activity) CategoryStyle {
	return CategoryOf(activity.Description).Style()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02 15:04:05",
}

func ParseTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// RelativeTime renders a timestamp relative to now. Tiers switch with strict
// comparisons: exactly 60 minutes is "1 hours ago", exactly 24 hours is
// "1 days ago" and exactly 7 days falls through to the absolute date.
func RelativeTime(timestamp string, now time.Time) string {
	at, err := ParseTimestamp(timestamp)
	if err != nil {
		return timestamp
	}
	return RelativeTimeAt(at, now)
}

func RelativeTimeAt(at, now time.Time) string {
	// Floored, so a timestamp slightly in the future reads "-1 minutes ago".
	diffMins := int(math.Floor(now.Sub(at).Minutes()))
	diffHours := diffMins / 60
	diffDays := diffHours / 24

	switch {
	case diffMins < 60:
		return fmt.Sprintf("%d minutes ago", diffMins)
	case diffHours < 24:
		return fmt.Sprintf("%d hours ago", diffHours)
	case diffDays < 7:
		return fmt.Sprintf("%d days ago", diffDays)
	default:
		return at.Format("Jan 2, 2006")
	}
}
