// Package common contains small utilities shared across the project:
// pluralization, duration formatting and reference-timezone helpers.
package common

import (
	"fmt"
	"time"
)

// PluralizeDays returns "day" or "days" for n.
func PluralizeDays(n int) string {
	if n == 1 || n == -1 {
		return "day"
	}
	return "days"
}

// FormatStreak formats a streak counter for chat output.
// Example: FormatStreak(5) → "5 days"
func FormatStreak(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeDays(n))
}

// FormatCountdown renders a duration as truncated hours and minutes.
// The hour part is the integer number of whole hours, the minute part
// the integer remainder. Seconds are dropped, never rounded up.
//
// Examples:
//
//	FormatCountdown(90 * time.Minute) → "1h 30m"
//	FormatCountdown(59 * time.Second) → "0h 0m"
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatDateTime formats a timestamp in the given location as
// "02.01.2006 15:04". Used for log-friendly stamps in admin replies.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}
