// internal/normalize/normalize_test.go
package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-activity/internal/github"
	"github-activity/internal/model"
)

func lang(s string) *string { return &s }

func TestToUserStats(t *testing.T) {
	profile := model.UserProfile{Login: "octocat", PublicRepos: 3, Followers: 10}
	repos := []model.Repository{
		{Name: "a", Language: lang("Go"), StarsCount: 5, ForksCount: 1},
		{Name: "b", Language: nil, StarsCount: 7, ForksCount: 2},
	}

	stats := ToUserStats(profile, repos)

	assert.Equal(t, model.UserStats{PublicRepoCount: 3, FollowerCount: 10, TotalStars: 12, TotalForks: 3}, stats)
}

func TestToLanguageDistribution(t *testing.T) {
	repos := []model.Repository{
		{Language: lang("TS")}, {Language: lang("JS")}, {Language: lang("TS")},
		{Language: lang("Go")}, {Language: lang("JS")}, {Language: lang("TS")},
		{Language: nil},
	}

	t.Run("ranks descending", func(t *testing.T) {
		dist := ToLanguageDistribution(repos, 6)
		assert.Equal(t, model.LanguageDistribution{
			{Language: "TS", Count: 3},
			{Language: "JS", Count: 2},
			{Language: "Go", Count: 1},
		}, dist)
	})

	t.Run("truncates to the limit", func(t *testing.T) {
		dist := ToLanguageDistribution(repos, 2)
		assert.Equal(t, model.LanguageDistribution{
			{Language: "TS", Count: 3},
			{Language: "JS", Count: 2},
		}, dist)
	})

	t.Run("non-positive limit uses the default", func(t *testing.T) {
		many := []model.Repository{}
		for _, l := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			many = append(many, model.Repository{Language: lang(l)})
		}
		assert.Len(t, ToLanguageDistribution(many, 0), DefaultLanguageLimit)
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		dist := ToLanguageDistribution([]model.Repository{{Language: lang("Rust")}, {Language: lang("C")}}, 6)
		assert.Equal(t, "Rust", dist[0].Language)
		assert.Equal(t, "C", dist[1].Language)
	})

	t.Run("no languages yields an empty distribution", func(t *testing.T) {
		assert.Empty(t, ToLanguageDistribution([]model.Repository{{Language: nil}}, 6))
	})
}

func TestToContributionCalendar(t *testing.T) {
	weeks := []github.RawWeek{
		{ContributionDays: []github.RawDay{
			{ContributionCount: 0, Date: "2024-01-01"},
			{ContributionCount: 4, Date: "2024-01-02"},
		}},
		{ContributionDays: []github.RawDay{
			{ContributionCount: 12, Date: "2024-01-08"},
		}},
	}

	cal := ToContributionCalendar(weeks)

	require.Len(t, cal, 2)
	require.Len(t, cal[0].Days, 2)
	require.Len(t, cal[1].Days, 1)
	assert.Equal(t, model.ContributionDay{Date: "2024-01-02", Count: 4, Level: 2}, cal[0].Days[1])
	assert.Equal(t, 4, cal[1].Days[0].Level)
}

func TestToContributionDetails(t *testing.T) {
	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts
	}
	repo := github.RawRepository{Name: "site", NameWithOwner: "octocat/site", URL: "https://github.com/octocat/site"}

	raw := &github.RawDetail{
		CommitContributionsByRepository: []github.RawRepoContributions[github.RawCommitNode]{{
			Repository: repo,
			Contributions: github.RawNodes[github.RawCommitNode]{Nodes: []github.RawCommitNode{
				{CommitCount: 3, OccurredAt: at("2024-01-02T09:00:00Z")},
			}},
		}},
		PullRequestContributionsByRepository: []github.RawRepoContributions[github.RawPullRequestNode]{{
			Repository: repo,
			Contributions: github.RawNodes[github.RawPullRequestNode]{Nodes: []github.RawPullRequestNode{
				{PullRequest: github.RawItem{Title: "Add page", URL: "pr-url", CreatedAt: at("2024-01-02T12:00:00Z")}},
			}},
		}},
		IssueContributionsByRepository: []github.RawRepoContributions[github.RawIssueNode]{{
			Repository: repo,
			Contributions: github.RawNodes[github.RawIssueNode]{Nodes: []github.RawIssueNode{
				{Issue: github.RawItem{Title: "Bug", URL: "issue-url", CreatedAt: at("2024-01-02T07:00:00Z")}},
			}},
		}},
		PullRequestReviewContributionsByRepository: []github.RawRepoContributions[github.RawReviewNode]{{
			Repository: repo,
			Contributions: github.RawNodes[github.RawReviewNode]{Nodes: []github.RawReviewNode{
				{PullRequest: github.RawItem{Title: "Fix", URL: "review-url"}, OccurredAt: at("2024-01-02T15:00:00Z")},
			}},
		}},
	}

	details := ToContributionDetails(raw)

	require.Len(t, details, 4)
	kinds := []model.ContributionKind{details[0].Kind, details[1].Kind, details[2].Kind, details[3].Kind}
	assert.Equal(t, []model.ContributionKind{model.KindReview, model.KindPullRequest, model.KindCommit, model.KindIssue}, kinds)

	commit := details[2]
	assert.Equal(t, "octocat/site", commit.Repo)
	assert.Equal(t, "https://github.com/octocat/site", commit.URL)
	assert.Equal(t, 3, commit.CommitCount)

	review := details[0]
	assert.Equal(t, "Fix", review.Title)
	assert.Equal(t, at("2024-01-02T15:00:00Z"), review.OccurredAt)
}

func TestToContributionDetails_Nil(t *testing.T) {
	assert.Empty(t, ToContributionDetails(nil))
	assert.NotNil(t, ToContributionDetails(&github.RawDetail{}))
}
