// internal/api/proxy.go
package api

import (
	"errors"
	"net/http"

	custom_errors "github-activity/internal/errors"
	"github-activity/internal/model"
)

// proxyResponse is the {success, data, error} envelope of the proxy endpoints.
type proxyResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

type graphQLErrorItem struct {
	Message string `json:"message"`
}

func graphQLErrorItems(e *custom_errors.GraphQLError) []graphQLErrorItem {
	items := make([]graphQLErrorItem, len(e.Messages))
	for i, m := range e.Messages {
		items[i] = graphQLErrorItem{Message: m}
	}
	return items
}

// proxyContributions returns the raw contribution calendar using the server token.
// GET /api/github-contributions?username=
func (h *Handler) proxyContributions(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		username = h.DefaultUsername
	}
	logger := h.logger.With("username", username)

	if !h.Upstream.Authenticated() {
		logger.Error("GITHUB_TOKEN is not set, cannot proxy contributions")
		respondWithJSON(w, http.StatusInternalServerError, proxyResponse{
			Error:   "GitHub token not configured",
			Message: "GITHUB_TOKEN environment variable is required for this API.",
		})
		return
	}

	cal, err := h.Upstream.FetchContributionCalendar(r.Context(), username)
	if err != nil {
		var (
			gqlErr     *custom_errors.GraphQLError
			payloadErr *custom_errors.InvalidPayloadError
		)
		switch {
		case errors.As(err, &gqlErr):
			logger.Error("GitHub GraphQL errors", "errors", gqlErr.Messages)
			respondWithJSON(w, http.StatusInternalServerError, proxyResponse{
				Error:   "Failed to fetch contributions",
				Details: graphQLErrorItems(gqlErr),
			})
		case errors.As(err, &payloadErr):
			respondWithJSON(w, http.StatusNotFound, proxyResponse{Error: "No contribution data found"})
		default:
			logger.Error("Failed to fetch contributions", "error", err)
			respondWithJSON(w, http.StatusInternalServerError, proxyResponse{
				Error:   "Internal server error",
				Message: err.Error(),
			})
		}
		return
	}
	if cal.Weeks == nil {
		respondWithJSON(w, http.StatusNotFound, proxyResponse{Error: "No contribution data found"})
		return
	}

	respondWithJSON(w, http.StatusOK, proxyResponse{Success: true, Data: cal})
}

// proxyContributionDetails returns the raw contributionsCollection for one UTC day.
// GET /api/github-contribution-details?username=&date=YYYY-MM-DD
func (h *Handler) proxyContributionDetails(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	date := r.URL.Query().Get("date")
	if username == "" || date == "" {
		respondWithJSON(w, http.StatusBadRequest, proxyResponse{Error: "Username and date are required"})
		return
	}

	day, err := model.ParseDay(date)
	if err != nil {
		respondWithJSON(w, http.StatusBadRequest, proxyResponse{Error: err.Error()})
		return
	}
	logger := h.logger.With("username", username, "date", date)

	detail, err := h.Upstream.FetchContributionDetail(r.Context(), username, day)
	if err != nil {
		logger.Error("Failed to fetch contribution details", "error", err)

		resp := proxyResponse{Error: "Failed to fetch contribution details", Details: err.Error()}
		status := http.StatusInternalServerError

		var (
			gqlErr  *custom_errors.GraphQLError
			httpErr *custom_errors.HTTPError
		)
		switch {
		case errors.As(err, &gqlErr):
			resp.Error = graphQLErrorItems(gqlErr)
		case errors.As(err, &httpErr):
			status = httpErr.Status
			if httpErr.Message != "" {
				resp.Error = httpErr.Message
			}
		case errors.Is(err, custom_errors.ErrTokenRequired):
			resp.Error = "GitHub token not configured"
		}
		respondWithJSON(w, status, resp)
		return
	}

	respondWithJSON(w, http.StatusOK, proxyResponse{Success: true, Data: detail})
}
