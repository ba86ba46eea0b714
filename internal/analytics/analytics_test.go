// internal/analytics/analytics_test.go
package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-activity/internal/model"
)

func day(date string, count int) model.ContributionDay {
	return model.ContributionDay{Date: date, Count: count, Level: model.ContributionLevel(count)}
}

func week(days ...model.ContributionDay) model.ContributionWeek {
	return model.ContributionWeek{Days: days}
}

// 2024-01-01 is a Monday.
func sampleWeek() model.ContributionCalendar {
	return model.ContributionCalendar{week(
		day("2024-01-01", 0),
		day("2024-01-02", 1),
		day("2024-01-03", 0),
		day("2024-01-04", 3),
		day("2024-01-05", 3),
		day("2024-01-06", 0),
		day("2024-01-07", 0),
	)}
}

func TestDerive_EndToEnd(t *testing.T) {
	cal := sampleWeek()

	levels := []int{}
	for _, d := range cal.Days() {
		levels = append(levels, d.Level)
	}
	assert.Equal(t, []int{0, 1, 0, 2, 2, 0, 0}, levels)

	stats := Derive(cal)

	assert.Equal(t, 7, stats.TotalContributions)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.Equal(t, 0, stats.CurrentStreak, "a zero-count final day resets the current streak")
	assert.InDelta(t, 1.0, stats.AveragePerDay, 1e-9)
	require.Len(t, stats.Months, 1)
	assert.Equal(t, "Jan 2024", stats.BusiestMonth.Label)
	assert.Equal(t, 7, stats.BusiestMonth.Count)
	assert.Equal(t, "Thu", stats.MostActiveWeekday)
}

func TestDerive_Idempotent(t *testing.T) {
	cal := sampleWeek()
	assert.Equal(t, Derive(cal), Derive(cal))
	assert.Equal(t, CurrentStreak(cal), CurrentStreak(cal))
	assert.Equal(t, LongestStreak(cal), LongestStreak(cal))
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		cal  model.ContributionCalendar
		want int
	}{
		{"empty", nil, 0},
		{"active through the last day", model.ContributionCalendar{week(day("2024-01-01", 0), day("2024-01-02", 2), day("2024-01-03", 1))}, 2},
		{"zero today", model.ContributionCalendar{week(day("2024-01-01", 4), day("2024-01-02", 0))}, 0},
		{"all active", model.ContributionCalendar{week(day("2024-01-01", 1)), week(day("2024-01-08", 1))}, 2},
		{"unordered input is sorted by date", model.ContributionCalendar{week(day("2024-01-03", 1), day("2024-01-01", 0), day("2024-01-02", 1))}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.cal))
		})
	}
}

func TestLongestStreak_SpansWeeks(t *testing.T) {
	cal := model.ContributionCalendar{
		week(day("2024-01-05", 1), day("2024-01-06", 1)),
		week(day("2024-01-07", 1), day("2024-01-08", 0), day("2024-01-09", 1)),
	}
	assert.Equal(t, 3, LongestStreak(cal))
}

func TestAveragePerDay_Empty(t *testing.T) {
	assert.Equal(t, 0.0, AveragePerDay(nil))
	assert.Equal(t, 0.0, AveragePerDay(model.ContributionCalendar{}))
}

func TestMonthlyTotals(t *testing.T) {
	cal := model.ContributionCalendar{}
	// One day in each month from Jan 2023 to Mar 2024: 15 months.
	for y, m := 2023, 1; y < 2024 || m <= 3; {
		cal = append(cal, week(day(formatDate(y, m, 15), m)))
		m++
		if m > 12 {
			y, m = y+1, 1
		}
	}

	months := MonthlyTotals(cal)

	require.Len(t, months, MaxMonths)
	assert.Equal(t, "Mar 2024", months[0].Label)
	assert.Equal(t, "Apr 2023", months[len(months)-1].Label)
	for i := 1; i < len(months); i++ {
		assert.True(t, months[i-1].Month.After(months[i].Month))
	}
}

func TestMonthlyTotals_UTCBoundaries(t *testing.T) {
	cal := model.ContributionCalendar{week(day("2024-01-31", 2), day("2024-02-01", 5))}

	months := MonthlyTotals(cal)

	require.Len(t, months, 2)
	assert.Equal(t, model.MonthTotal{Label: "Feb 2024", Month: months[0].Month, Count: 5}, months[0])
	assert.Equal(t, "Jan 2024", months[1].Label)
	assert.Equal(t, 2, months[1].Count)
}

func TestBusiestMonth_TieBreak(t *testing.T) {
	cal := model.ContributionCalendar{week(day("2024-01-10", 4), day("2024-02-10", 4))}
	months := MonthlyTotals(cal)

	for i := 0; i < 5; i++ {
		assert.Equal(t, "Feb 2024", BusiestMonth(months).Label, "first month in sorted order wins ties")
	}
}

func TestBusiestMonth_Empty(t *testing.T) {
	m := BusiestMonth(nil)
	assert.Equal(t, "N/A", m.Label)
	assert.Equal(t, 0, m.Count)
}

func TestWeekdayTotals(t *testing.T) {
	totals := WeekdayTotals(sampleWeek())

	require.Len(t, totals, 7)
	assert.Equal(t, "Sun", totals[0].Weekday)
	assert.Equal(t, "Sat", totals[6].Weekday)
	assert.Equal(t, 1, totals[2].Count) // Tue
	assert.Equal(t, 3, totals[4].Count) // Thu
	assert.Equal(t, 3, totals[5].Count) // Fri
}

func TestMostActiveWeekday_TieBreak(t *testing.T) {
	assert.Equal(t, "Thu", MostActiveWeekday(WeekdayTotals(sampleWeek())))
	assert.Equal(t, "Sun", MostActiveWeekday(WeekdayTotals(nil)))
	assert.Equal(t, "", MostActiveWeekday(nil))
}

func formatDate(y, m, d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
