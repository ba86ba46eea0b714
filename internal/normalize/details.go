// internal/normalize/details.go
package normalize

import (
	"sort"

	"github-activity/internal/github"
	"github-activity/internal/model"
)

// ToContributionDetails flattens the four repository-grouped collections into
// one list, newest first.
func ToContributionDetails(raw *github.RawDetail) []model.ContributionDetail {
	if raw == nil {
		return []model.ContributionDetail{}
	}

	details := []model.ContributionDetail{}

	for _, group := range raw.CommitContributionsByRepository {
		for _, n := range group.Contributions.Nodes {
			details = append(details, model.ContributionDetail{
				Kind:        model.KindCommit,
				Repo:        group.Repository.NameWithOwner,
				URL:         group.Repository.URL,
				CommitCount: n.CommitCount,
				OccurredAt:  n.OccurredAt,
			})
		}
	}

	for _, group := range raw.PullRequestContributionsByRepository {
		for _, n := range group.Contributions.Nodes {
			details = append(details, model.ContributionDetail{
				Kind:       model.KindPullRequest,
				Repo:       group.Repository.NameWithOwner,
				Title:      n.PullRequest.Title,
				URL:        n.PullRequest.URL,
				OccurredAt: n.PullRequest.CreatedAt,
			})
		}
	}

	for _, group := range raw.IssueContributionsByRepository {
		for _, n := range group.Contributions.Nodes {
			details = append(details, model.ContributionDetail{
				Kind:       model.KindIssue,
				Repo:       group.Repository.NameWithOwner,
				Title:      n.Issue.Title,
				URL:        n.Issue.URL,
				OccurredAt: n.Issue.CreatedAt,
			})
		}
	}

	for _, group := range raw.PullRequestReviewContributionsByRepository {
		for _, n := range group.Contributions.Nodes {
			details = append(details, model.ContributionDetail{
				Kind:       model.KindReview,
				Repo:       group.Repository.NameWithOwner,
				Title:      n.PullRequest.Title,
				URL:        n.PullRequest.URL,
				OccurredAt: n.OccurredAt,
			})
		}
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].OccurredAt.After(details[j].OccurredAt)
	})
	return details
}
