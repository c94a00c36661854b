package render

import (
	"fmt"
	"strings"
	"time"
)

// StatusLabel turns a raw status value into its display label:
// underscores become spaces and the result is upper-cased,
// so "in_transit" renders as "IN TRANSIT".
func StatusLabel(status string) string {
	return strings.ToUpper(strings.ReplaceAll(status, "_", " "))
}

// BadgeClass returns the CSS badge class for a raw status value:
// "in_transit" maps to "badge-in-transit".
func BadgeClass(status string) string {
	return "badge-" + strings.ReplaceAll(status, "_", "-")
}

// Currency formats an amount as dollars with two decimals. The zero value
// covers amounts the API omitted, so an absent amount renders as "$0.00".
func Currency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// Weight formats a package weight in kilograms.
func Weight(kg float64) string {
	return fmt.Sprintf("%gkg", kg)
}

// timeLayouts covers the timestamp shapes the API emits. Python isoformat
// timestamps carry no zone suffix.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date formats an API timestamp as a short date, passing unparseable
// values through untouched.
func Date(value string) string {
	if t, ok := parseTime(value); ok {
		return t.Format("Jan 2, 2006")
	}
	return value
}

// DateTime formats an API timestamp with time of day, passing unparseable
// values through untouched.
func DateTime(value string) string {
	if t, ok := parseTime(value); ok {
		return t.Format("Jan 2, 2006 3:04 PM")
	}
	return value
}
