// internal/api/response.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	custom_errors "github-activity/internal/errors"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// statusFor maps an error kind to the HTTP status returned to callers.
func statusFor(err error) int {
	var (
		httpErr    *custom_errors.HTTPError
		gqlErr     *custom_errors.GraphQLError
		payloadErr *custom_errors.InvalidPayloadError
		dateErr    *custom_errors.InvalidDateError
		transport  *custom_errors.TransportError
	)
	switch {
	case errors.As(err, &dateErr):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		if httpErr.Status >= 400 {
			return httpErr.Status
		}
		return http.StatusBadGateway
	case errors.As(err, &payloadErr):
		return http.StatusNotFound
	case errors.As(err, &gqlErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
