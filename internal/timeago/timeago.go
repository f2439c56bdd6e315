// AngelaMos | 2026
// timeago.go

// Package timeago renders compact relative timestamps such as "3h ago".
package timeago

import (
	"fmt"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// Since formats the distance from t to now. Timestamps in the future read as
// "just now".
func Since(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < day:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < week:
		return fmt.Sprintf("%dd ago", int(d/day))
	case d < month:
		return fmt.Sprintf("%dw ago", int(d/week))
	case d < year:
		return fmt.Sprintf("%dmo ago", int(d/month))
	default:
		return fmt.Sprintf("%dy ago", int(d/year))
	}
}
