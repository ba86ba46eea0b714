// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCacheMiss signals that a key is absent or expired. It is not a failure;
	// callers proceed to fetch.
	ErrCacheMiss = errors.New("cache miss")

	// ErrTokenRequired is returned when a GraphQL query is attempted without a token.
	ErrTokenRequired = errors.New("a GitHub token is required for GraphQL queries")

	// ErrNoCalendarSource is returned when neither a token nor a proxy is available
	// for the contribution calendar.
	ErrNoCalendarSource = errors.New("no token or server proxy configured for contributions")
)

// TransportError is returned when no response was received from upstream
// (network, DNS or timeout failure).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is returned when upstream answered with a non-2xx status.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.Status, e.Message)
}

// GraphQLError is returned when a GraphQL response carries a non-empty errors array,
// even on HTTP 200.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	if len(e.Messages) == 0 {
		return "GraphQL query failed"
	}
	return "GraphQL query failed: " + strings.Join(e.Messages, ", ")
}

// InvalidPayloadError is returned when a response is missing an expected field.
type InvalidPayloadError struct {
	Field string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid upstream payload: missing %s", e.Field)
}

// InvalidDateError is returned when a calendar date is not in YYYY-MM-DD form.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q, expected 'YYYY-MM-DD'", e.Value)
}
