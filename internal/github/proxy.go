// internal/github/proxy.go
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	custom_errors "github-activity/internal/errors"
	"github-activity/internal/model"
)

const (
	contributionsPath = "/api/github-contributions"
	detailsPath       = "/api/github-contribution-details"
)

// ProxyClient reads contribution data through the server-side proxy endpoints,
// so a caller without a token never needs one.
type ProxyClient struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewProxyClient creates a client for the proxy served at baseURL.
func NewProxyClient(baseURL string, timeout time.Duration, logger *slog.Logger) *ProxyClient {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &ProxyClient{
		http:    hc,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// envelope is the {success, data, error} wrapper the proxy endpoints answer with.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// FetchContributionCalendar calls GET /api/github-contributions?username=.
func (p *ProxyClient) FetchContributionCalendar(ctx context.Context, username string) (*RawCalendar, error) {
	q := url.Values{"username": {username}}

	var cal RawCalendar
	if err := p.get(ctx, contributionsPath, q, &cal); err != nil {
		return nil, err
	}
	if cal.Weeks == nil {
		return nil, &custom_errors.InvalidPayloadError{Field: "weeks"}
	}
	return &cal, nil
}

// FetchContributionDetail calls GET /api/github-contribution-details?username=&date=.
func (p *ProxyClient) FetchContributionDetail(ctx context.Context, username string, day time.Time) (*RawDetail, error) {
	q := url.Values{
		"username": {username},
		"date":     {day.UTC().Format(model.DateLayout)},
	}

	var detail RawDetail
	if err := p.get(ctx, detailsPath, q, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (p *ProxyClient) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := p.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new proxy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("Calling contribution proxy", "path", path)
	resp, err := p.http.Do(req)
	if err != nil {
		return &custom_errors.TransportError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := envelopeMessage(env.Error)
		if msg == "" {
			msg = env.Message
		}
		return &custom_errors.HTTPError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil || !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		return &custom_errors.InvalidPayloadError{Field: "data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode proxy data: %w", &custom_errors.InvalidPayloadError{Field: "data"})
	}
	return nil
}

// envelopeMessage flattens the proxy's error field, which is either a string or
// a relayed GraphQL errors array.
func envelopeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			msgs = append(msgs, e.Message)
		}
		return strings.Join(msgs, ", ")
	}
	return string(raw)
}
