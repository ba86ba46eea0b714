// cmd/activity/render_test.go
package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github-activity/internal/model"
)

func init() {
	color.NoColor = true
}

func TestPrintDay(t *testing.T) {
	list := []model.ContributionDetail{
		{Kind: model.KindCommit, Repo: "octocat/site", CommitCount: 2},
		{Kind: model.KindPullRequest, Repo: "octocat/site", Title: "Add page"},
	}

	t.Run("attributes the gap to private repositories", func(t *testing.T) {
		var buf bytes.Buffer
		printDay(&buf, "Monday, January 1, 2024", list, model.Reconciliation{CalendarCount: 5, DetailCount: 3, HiddenCount: 2, Diverges: true})

		out := buf.String()
		assert.Contains(t, out, "Monday, January 1, 2024")
		assert.Contains(t, out, "[commit] 2 commit(s) to octocat/site")
		assert.Contains(t, out, "[pullRequest] octocat/site: Add page")
		assert.Contains(t, out, "Calendar: 5  Visible: 3")
		assert.Contains(t, out, "2 contribution(s) are in private repositories")
	})

	t.Run("no warning when the counts match", func(t *testing.T) {
		var buf bytes.Buffer
		printDay(&buf, "Monday, January 1, 2024", list, model.Reconciliation{CalendarCount: 3, DetailCount: 3})
		assert.NotContains(t, buf.String(), "private")
	})

	t.Run("empty day", func(t *testing.T) {
		var buf bytes.Buffer
		printDay(&buf, "Monday, January 1, 2024", nil, model.Reconciliation{})
		assert.Contains(t, buf.String(), "No public contributions")
	})
}

func TestPrintMonthlyChart(t *testing.T) {
	months := []model.MonthTotal{
		{Label: "Mar 2024", Month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Count: 9},
		{Label: "Feb 2024", Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		{Label: "Jan 2024", Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 5},
	}

	var buf bytes.Buffer
	printMonthlyChart(&buf, months)

	assert.Contains(t, buf.String(), "Jan 2024 to Mar 2024")
	assert.Equal(t, "Mar 2024", months[0].Label, "input order must not change")

	buf.Reset()
	printMonthlyChart(&buf, months[:1])
	assert.Empty(t, buf.String())
}

func TestPrintLanguages(t *testing.T) {
	var buf bytes.Buffer
	printLanguages(&buf, model.LanguageDistribution{{Language: "Go", Count: 3}, {Language: "TS", Count: 1}})

	assert.Contains(t, buf.String(), "1. Go")
	assert.Contains(t, buf.String(), "2. TS")
}
