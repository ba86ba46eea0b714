// internal/model/calendar.go
package model

import (
	"time"

	custom_errors "github-activity/internal/errors"
)

// DateLayout is the calendar-date form used by the contribution calendar.
const DateLayout = "2006-01-02"

// ContributionLevel maps a daily count to a heatmap intensity in 0..4.
func ContributionLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count < 3:
		return 1
	case count < 6:
		return 2
	case count < 9:
		return 3
	default:
		return 4
	}
}

// ParseDay parses a YYYY-MM-DD string as midnight UTC. Every date-derived
// computation goes through here so the host timezone never shifts a day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &custom_errors.InvalidDateError{Value: s}
	}
	return t, nil
}

// DayWindow returns the half-open UTC window [day, day+1) for a calendar date.
func DayWindow(day time.Time) (from, to time.Time) {
	from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// FormatDay renders a calendar date as e.g. "Monday, January 1, 2024".
func FormatDay(s string) (string, error) {
	t, err := ParseDay(s)
	if err != nil {
		return "", err
	}
	return t.Format("Monday, January 2, 2006"), nil
}
