// internal/github/graphql.go
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	custom_errors "github-activity/internal/errors"
	"github-activity/internal/model"
)

const calendarQuery = `
query($username: String!) {
  user(login: $username) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            contributionCount
            date
          }
        }
      }
    }
  }
}`

const detailQuery = `
query($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      commitContributionsByRepository {
        repository { name nameWithOwner url }
        contributions(first: 100) {
          nodes { commitCount occurredAt }
        }
      }
      pullRequestContributionsByRepository {
        repository { name nameWithOwner url }
        contributions(first: 100) {
          nodes { pullRequest { title url createdAt } }
        }
      }
      issueContributionsByRepository {
        repository { name nameWithOwner url }
        contributions(first: 100) {
          nodes { issue { title url createdAt } }
        }
      }
      pullRequestReviewContributionsByRepository {
        repository { name nameWithOwner url }
        contributions(first: 100) {
          nodes { pullRequest { title url } occurredAt }
        }
      }
    }
  }
}`

type RawDay struct {
	ContributionCount int    `json:"contributionCount"`
	Date              string `json:"date"`
}

type RawWeek struct {
	ContributionDays []RawDay `json:"contributionDays"`
}

// RawCalendar mirrors contributionCalendar as GitHub emits it, oldest week first.
type RawCalendar struct {
	TotalContributions int       `json:"totalContributions"`
	Weeks              []RawWeek `json:"weeks"`
}

type RawRepository struct {
	Name          string `json:"name"`
	NameWithOwner string `json:"nameWithOwner"`
	URL           string `json:"url"`
}

type RawNodes[T any] struct {
	Nodes []T `json:"nodes"`
}

// RawRepoContributions is one repository-grouped contribution collection.
type RawRepoContributions[T any] struct {
	Repository    RawRepository `json:"repository"`
	Contributions RawNodes[T]   `json:"contributions"`
}

type RawCommitNode struct {
	CommitCount int       `json:"commitCount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type RawItem struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type RawPullRequestNode struct {
	PullRequest RawItem `json:"pullRequest"`
}

type RawIssueNode struct {
	Issue RawItem `json:"issue"`
}

type RawReviewNode struct {
	PullRequest RawItem   `json:"pullRequest"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// RawDetail mirrors contributionsCollection for a single-day window.
type RawDetail struct {
	CommitContributionsByRepository            []RawRepoContributions[RawCommitNode]      `json:"commitContributionsByRepository"`
	PullRequestContributionsByRepository       []RawRepoContributions[RawPullRequestNode] `json:"pullRequestContributionsByRepository"`
	IssueContributionsByRepository             []RawRepoContributions[RawIssueNode]       `json:"issueContributionsByRepository"`
	PullRequestReviewContributionsByRepository []RawRepoContributions[RawReviewNode]      `json:"pullRequestReviewContributionsByRepository"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

// FetchContributionCalendar runs the calendar query for username.
func (c *Client) FetchContributionCalendar(ctx context.Context, username string) (*RawCalendar, error) {
	var data struct {
		User *struct {
			ContributionsCollection *struct {
				ContributionCalendar *RawCalendar `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}

	if err := c.graphQL(ctx, calendarQuery, map[string]any{"username": username}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, &custom_errors.InvalidPayloadError{Field: "user"}
	}
	if data.User.ContributionsCollection == nil || data.User.ContributionsCollection.ContributionCalendar == nil {
		return nil, &custom_errors.InvalidPayloadError{Field: "contributionCalendar"}
	}
	return data.User.ContributionsCollection.ContributionCalendar, nil
}

// FetchContributionDetail runs the detail query over the half-open UTC window
// [day 00:00Z, day+1 00:00Z).
func (c *Client) FetchContributionDetail(ctx context.Context, username string, day time.Time) (*RawDetail, error) {
	from, to := model.DayWindow(day)
	vars := map[string]any{
		"username": username,
		"from":     from.Format(time.RFC3339),
		"to":       to.Format(time.RFC3339),
	}

	var data struct {
		User *struct {
			ContributionsCollection *RawDetail `json:"contributionsCollection"`
		} `json:"user"`
	}

	if err := c.graphQL(ctx, detailQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, &custom_errors.InvalidPayloadError{Field: "user"}
	}
	if data.User.ContributionsCollection == nil {
		return nil, &custom_errors.InvalidPayloadError{Field: "contributionsCollection"}
	}
	return data.User.ContributionsCollection, nil
}

func (c *Client) graphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.token == "" {
		return custom_errors.ErrTokenRequired
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.graphQLURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &custom_errors.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &custom_errors.TransportError{Err: err}
	}

	var gr graphQLResponse
	decodeErr := json.Unmarshal(raw, &gr)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &custom_errors.HTTPError{Status: resp.StatusCode, Message: gr.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode graphql response: %w", &custom_errors.InvalidPayloadError{Field: "data"})
	}
	if len(gr.Errors) > 0 {
		msgs := make([]string, 0, len(gr.Errors))
		for _, e := range gr.Errors {
			msgs = append(msgs, e.Message)
		}
		return &custom_errors.GraphQLError{Messages: msgs}
	}
	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return &custom_errors.InvalidPayloadError{Field: "data"}
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", &custom_errors.InvalidPayloadError{Field: "data"})
	}
	return nil
}
