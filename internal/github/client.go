// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	custom_errors "github-activity/internal/errors"
	"github-activity/internal/model"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"

	// reposPerPage caps the repository listing at a single page; users with more
	// repositories are under-counted.
	reposPerPage = 100
)

type options struct {
	baseURL      string
	graphQLURL   string
	timeout      time.Duration
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

func defaultOptions() options {
	return options{
		graphQLURL:   defaultGraphQLURL,
		timeout:      10 * time.Second,
		maxRetries:   3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 30 * time.Second,
	}
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the REST client at a different API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithGraphQLURL points GraphQL queries at a different endpoint.
func WithGraphQLURL(u string) Option {
	return func(o *options) { o.graphQLURL = u }
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetry configures how many times a failed request is retried and the
// bounds of the wait between attempts.
func WithRetry(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(o *options) {
		o.maxRetries = maxRetries
		o.retryWaitMin = waitMin
		o.retryWaitMax = waitMax
	}
}

// Client is a wrapper around the go-github client that also issues the
// contribution GraphQL queries.
type Client struct {
	gh     *github.Client
	base   http.RoundTripper
	http   *http.Client
	token  string
	opts   options
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// An empty token is legal and falls back to unauthenticated REST rate limits;
// GraphQL queries require a token.
func NewClient(token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(newTransport(logger, o), token, logger, o)
}

func newClient(base http.RoundTripper, token string, logger *slog.Logger, o options) (*Client, error) {
	httpClient := authorizedClient(base, token)
	gh := github.NewClient(httpClient)
	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", o.baseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:     gh,
		base:   base,
		http:   httpClient,
		token:  token,
		opts:   o,
		logger: logger,
	}, nil
}

// WithToken returns a copy of the client authenticated with a different token.
// The copy shares the receiver's connection pool and retry policy; the
// receiver is left untouched.
func (c *Client) WithToken(token string) *Client {
	clone, err := newClient(c.base, token, c.logger, c.opts)
	if err != nil {
		// The options were already validated when c was built.
		return c
	}
	return clone
}

// Authenticated reports whether the client holds a token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// FetchUserProfile fetches GET /users/{username}.
func (c *Client) FetchUserProfile(ctx context.Context, username string) (*model.UserProfile, error) {
	user, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		return nil, mapError(err)
	}
	return toInternalProfile(user), nil
}

// FetchUserRepositories fetches the 100 most recently updated repositories.
// It deliberately does not follow pagination.
func (c *Client) FetchUserRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: reposPerPage,
		},
	}

	c.logger.Debug("Fetching repositories page", "username", username, "per_page", reposPerPage)
	repos, _, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toInternalRepository(r))
	}
	return out, nil
}

// FetchRateLimit reports the core REST rate-limit status for the client's identity.
func (c *Client) FetchRateLimit(ctx context.Context) (*model.RateLimit, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	core := limits.GetCore()
	if core == nil {
		return nil, &custom_errors.InvalidPayloadError{Field: "resources.core"}
	}
	return &model.RateLimit{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
	}, nil
}

// mapError translates go-github and transport failures into the upstream error taxonomy.
func mapError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &custom_errors.HTTPError{Status: statusOf(rateErr.Response, http.StatusForbidden), Message: rateErr.Message}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &custom_errors.HTTPError{Status: statusOf(abuseErr.Response, http.StatusForbidden), Message: abuseErr.Message}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return &custom_errors.HTTPError{Status: statusOf(respErr.Response, http.StatusInternalServerError), Message: respErr.Message}
	}
	return &custom_errors.TransportError{Err: err}
}

func statusOf(resp *http.Response, fallback int) int {
	if resp == nil {
		return fallback
	}
	return resp.StatusCode
}

// toInternalProfile translates a github.User object to our internal model.UserProfile.
func toInternalProfile(u *github.User) *model.UserProfile {
	return &model.UserProfile{
		Login:       u.GetLogin(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
	}
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) model.Repository {
	return model.Repository{
		Name:       r.GetName(),
		Language:   r.Language,
		StarsCount: r.GetStargazersCount(),
		ForksCount: r.GetForksCount(),
	}
}
