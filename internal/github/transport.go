// internal/github/transport.go
package github

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

// newTransport builds the round tripper shared by REST and GraphQL calls:
// pooled connections and retries on 5xx and rate limiting. Clients scoped to
// other tokens reuse it.
func newTransport(logger *slog.Logger, o options) http.RoundTripper {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = o.timeout
	rc.Logger = logger
	rc.RetryMax = o.maxRetries
	rc.RetryWaitMin = o.retryWaitMin
	rc.RetryWaitMax = o.retryWaitMax
	rc.CheckRetry = checkRetry
	rc.Backoff = rateLimitBackoff
	// Hand the last response back so go-github can build a typed error from it.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return rc.StandardClient().Transport
}

// authorizedClient wraps base with a bearer token. An empty token leaves
// requests unauthenticated.
func authorizedClient(base http.RoundTripper, token string) *http.Client {
	if token == "" {
		return &http.Client{Transport: base}
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		},
	}
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil && isRateLimited(resp) {
		return true, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// rateLimitBackoff waits until X-RateLimit-Reset when GitHub reports an exhausted
// quota, bounded by the configured maximum wait.
func rateLimitBackoff(min, max time.Duration, attempt int, resp *http.Response) time.Duration {
	if resp != nil && isRateLimited(resp) {
		if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			wait := time.Until(time.Unix(reset, 0))
			if wait < min {
				wait = min
			}
			if wait > max {
				wait = max
			}
			return wait
		}
	}
	return retryablehttp.DefaultBackoff(min, max, attempt, resp)
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}
