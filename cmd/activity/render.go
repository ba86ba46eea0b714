// cmd/activity/render.go
package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"

	"github-activity/internal/model"
)

var (
	headerColor = color.New(color.FgHiCyan, color.Bold)
	labelColor  = color.New(color.FgCyan)
	warnColor   = color.New(color.FgYellow)
)

func printStats(w io.Writer, s model.UserStats) {
	headerColor.Fprintln(w, "\nProfile")
	labelColor.Fprint(w, "  Public repos: ")
	fmt.Fprintln(w, s.PublicRepoCount)
	labelColor.Fprint(w, "  Followers:    ")
	fmt.Fprintln(w, s.FollowerCount)
	labelColor.Fprint(w, "  Total stars:  ")
	fmt.Fprintln(w, s.TotalStars)
	labelColor.Fprint(w, "  Total forks:  ")
	fmt.Fprintln(w, s.TotalForks)
}

func printLanguages(w io.Writer, langs model.LanguageDistribution) {
	headerColor.Fprintln(w, "\nTop languages")
	if len(langs) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for i, l := range langs {
		fmt.Fprintf(w, "  %d. %-16s %d\n", i+1, l.Language, l.Count)
	}
}

func printDerived(w io.Writer, d model.DerivedStats) {
	headerColor.Fprintln(w, "\nContributions")
	labelColor.Fprint(w, "  Total:          ")
	fmt.Fprintln(w, d.TotalContributions)
	labelColor.Fprint(w, "  Current streak: ")
	fmt.Fprintf(w, "%d days\n", d.CurrentStreak)
	labelColor.Fprint(w, "  Longest streak: ")
	fmt.Fprintf(w, "%d days\n", d.LongestStreak)
	labelColor.Fprint(w, "  Daily average:  ")
	fmt.Fprintf(w, "%.2f\n", d.AveragePerDay)
	labelColor.Fprint(w, "  Busiest month:  ")
	fmt.Fprintf(w, "%s (%d)\n", d.BusiestMonth.Label, d.BusiestMonth.Count)
	labelColor.Fprint(w, "  Most active:    ")
	fmt.Fprintln(w, d.MostActiveWeekday)
}

// printMonthlyChart plots the month totals oldest to newest.
func printMonthlyChart(w io.Writer, months []model.MonthTotal) {
	if len(months) < 2 {
		return
	}
	ordered := slices.Clone(months)
	slices.Reverse(ordered)

	data := make([]float64, len(ordered))
	for i, m := range ordered {
		data[i] = float64(m.Count)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(len(data)*4),
		asciigraph.Caption(fmt.Sprintf("%s to %s", ordered[0].Label, ordered[len(ordered)-1].Label)),
	)
	fmt.Fprintf(w, "\n%s\n", graph)
}

func printDay(w io.Writer, label string, list []model.ContributionDetail, r model.Reconciliation) {
	headerColor.Fprintf(w, "\n%s\n", label)
	if len(list) == 0 {
		fmt.Fprintln(w, "  No public contributions")
	}
	for _, d := range list {
		switch d.Kind {
		case model.KindCommit:
			fmt.Fprintf(w, "  [%s] %d commit(s) to %s\n", d.Kind, d.CommitCount, d.Repo)
		default:
			fmt.Fprintf(w, "  [%s] %s: %s\n", d.Kind, d.Repo, d.Title)
		}
	}

	fmt.Fprintf(w, "\n  Calendar: %d  Visible: %d\n", r.CalendarCount, r.DetailCount)
	if r.HiddenCount > 0 {
		warnColor.Fprintf(w, "  %d contribution(s) are in private repositories\n", r.HiddenCount)
	} else if r.Diverges {
		warnColor.Fprintln(w, "  Visible contributions exceed the calendar count")
	}
}
