// internal/analytics/analytics.go

// Package analytics derives summary statistics from a contribution calendar.
// All functions are pure; the same calendar always yields the same result.
package analytics

import (
	"sort"
	"time"

	"github-activity/internal/model"
)

const (
	// MaxMonths is the number of most recent months kept by MonthlyTotals.
	MaxMonths = 12

	monthLabelLayout = "Jan 2006"
	noMonthLabel     = "N/A"
)

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Derive runs every computation in this package over cal.
func Derive(cal model.ContributionCalendar) model.DerivedStats {
	months := MonthlyTotals(cal)
	weekdays := WeekdayTotals(cal)
	return model.DerivedStats{
		TotalContributions: TotalContributions(cal),
		CurrentStreak:      CurrentStreak(cal),
		LongestStreak:      LongestStreak(cal),
		AveragePerDay:      AveragePerDay(cal),
		Months:             months,
		BusiestMonth:       BusiestMonth(months),
		MostActiveWeekday:  MostActiveWeekday(weekdays),
		DayOfWeekTotals:    weekdays,
	}
}

// TotalContributions sums the count of every day.
func TotalContributions(cal model.ContributionCalendar) int {
	total := 0
	for _, d := range cal.Days() {
		total += d.Count
	}
	return total
}

// CurrentStreak counts consecutive non-zero days backwards from the most recent
// day in the calendar. A zero-count final day yields 0 even if the day before
// it was active.
func CurrentStreak(cal model.ContributionCalendar) int {
	days := chronological(cal)
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count <= 0 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive non-zero days.
func LongestStreak(cal model.ContributionCalendar) int {
	longest, running := 0, 0
	for _, d := range chronological(cal) {
		if d.Count <= 0 {
			running = 0
			continue
		}
		running++
		if running > longest {
			longest = running
		}
	}
	return longest
}

// AveragePerDay divides the total by the number of days; an empty calendar averages 0.
func AveragePerDay(cal model.ContributionCalendar) float64 {
	days := cal.Days()
	if len(days) == 0 {
		return 0
	}
	total := 0
	for _, d := range days {
		total += d.Count
	}
	return float64(total) / float64(len(days))
}

// MonthlyTotals buckets days by UTC month and returns at most MaxMonths
// buckets, newest first. Days with an unparseable date are skipped.
func MonthlyTotals(cal model.ContributionCalendar) []model.MonthTotal {
	buckets := make(map[time.Time]int)
	for _, d := range cal.Days() {
		t, err := model.ParseDay(d.Date)
		if err != nil {
			continue
		}
		month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		buckets[month] += d.Count
	}

	months := make([]model.MonthTotal, 0, len(buckets))
	for month, count := range buckets {
		months = append(months, model.MonthTotal{
			Label: month.Format(monthLabelLayout),
			Month: month,
			Count: count,
		})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.After(months[j].Month)
	})

	if len(months) > MaxMonths {
		months = months[:MaxMonths]
	}
	return months
}

// BusiestMonth returns the month with the highest count. On a tie the month
// that comes first in months wins, which for MonthlyTotals output is the most
// recent one. An empty list yields the "N/A" month.
func BusiestMonth(months []model.MonthTotal) model.MonthTotal {
	if len(months) == 0 {
		return model.MonthTotal{Label: noMonthLabel}
	}
	busiest := months[0]
	for _, m := range months[1:] {
		if m.Count > busiest.Count {
			busiest = m
		}
	}
	return busiest
}

// WeekdayTotals sums every day's count by UTC weekday, Sunday first. All seven
// weekdays are always present.
func WeekdayTotals(cal model.ContributionCalendar) []model.WeekdayTotal {
	var sums [7]int
	for _, d := range cal.Days() {
		t, err := model.ParseDay(d.Date)
		if err != nil {
			continue
		}
		sums[t.Weekday()] += d.Count
	}

	totals := make([]model.WeekdayTotal, len(weekdayNames))
	for i, name := range weekdayNames {
		totals[i] = model.WeekdayTotal{Weekday: name, Count: sums[i]}
	}
	return totals
}

// MostActiveWeekday returns the weekday with the highest count, the earliest
// in the list winning ties.
func MostActiveWeekday(totals []model.WeekdayTotal) string {
	if len(totals) == 0 {
		return ""
	}
	best := totals[0]
	for _, w := range totals[1:] {
		if w.Count > best.Count {
			best = w
		}
	}
	return best.Weekday
}

// chronological flattens cal and orders it by UTC date. Unparseable dates sort
// first and keep their relative order.
func chronological(cal model.ContributionCalendar) []model.ContributionDay {
	days := cal.Days()
	keys := make(map[string]time.Time, len(days))
	for _, d := range days {
		if t, err := model.ParseDay(d.Date); err == nil {
			keys[d.Date] = t
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return keys[days[i].Date].Before(keys[days[j].Date])
	})
	return days
}
