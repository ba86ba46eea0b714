// internal/api/users.go
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github-activity/internal/activity"
	"github-activity/internal/analytics"
	"github-activity/internal/details"
	"github-activity/internal/model"
)

type activityResponse struct {
	Username string `json:"username"`
	*model.Activity
	Derived model.DerivedStats `json:"derived"`
}

type dayResponse struct {
	Username       string                     `json:"username"`
	Date           string                     `json:"date"`
	Label          string                     `json:"label"`
	Details        []model.ContributionDetail `json:"details"`
	Reconciliation model.Reconciliation       `json:"reconciliation"`
}

type stateResponse struct {
	Date  string `json:"date"`
	State string `json:"state"`
}

func loadOptions(r *http.Request) activity.LoadOptions {
	q := r.URL.Query()
	useProxy, _ := strconv.ParseBool(q.Get("proxy"))
	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	return activity.LoadOptions{
		Token:          r.Header.Get(TokenHeader),
		UseServerProxy: useProxy,
		Refresh:        refresh,
	}
}

// getActivity returns stats, languages, the calendar and derived analytics.
// GET /v1/users/{username}/activity?proxy=&refresh=
func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)

	result, err := h.Activity.LoadActivity(r.Context(), username, loadOptions(r))
	if err != nil {
		h.logger.Error("Failed to load activity", "username", username, "error", err)
		respondWithError(w, statusFor(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, activityResponse{
		Username: username,
		Activity: result,
		Derived:  analytics.Derive(result.Contributions),
	})
}

// dayCount reads ?count=, or looks the day up in the calendar when it is absent.
// ok is false once an error response has been written.
func (h *Handler) dayCount(w http.ResponseWriter, r *http.Request, username, date string) (count int, ok bool) {
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'count' parameter. Must be a non-negative integer.")
			return 0, false
		}
		return n, true
	}

	cal, err := h.Activity.Calendar(r.Context(), username, loadOptions(r))
	if err != nil {
		h.logger.Error("Failed to load contribution calendar", "username", username, "error", err)
		respondWithError(w, statusFor(err), err.Error())
		return 0, false
	}
	day, _ := cal.Day(date)
	return day.Count, true
}

// getDayDetails returns the contribution details of one day with both counts.
// GET /v1/users/{username}/contributions/{date}?count=N
func (h *Handler) getDayDetails(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	date := chi.URLParam(r, "date")

	label, err := model.FormatDay(date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	count, ok := h.dayCount(w, r, username, date)
	if !ok {
		return
	}

	list, err := h.Details.FetchForView(r.Context(), username, date, count)
	if err != nil {
		h.logger.Error("Failed to fetch contribution details", "username", username, "date", date, "error", err)
		respondWithError(w, statusFor(err), err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, dayResponse{
		Username:       username,
		Date:           date,
		Label:          label,
		Details:        list,
		Reconciliation: details.Reconcile(count, list),
	})
}

// getDayState reports whether a day's details are cached or being fetched.
// GET /v1/users/{username}/contributions/{date}/state
func (h *Handler) getDayState(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	date := chi.URLParam(r, "date")

	state, err := h.Details.State(username, date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, stateResponse{Date: date, State: state.String()})
}

// prefetchDay starts loading a day's details in the background.
// POST /v1/users/{username}/contributions/{date}/prefetch?count=N
func (h *Handler) prefetchDay(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	date := chi.URLParam(r, "date")

	if _, err := model.ParseDay(date); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	count, ok := h.dayCount(w, r, username, date)
	if !ok {
		return
	}

	if err := h.Details.Prefetch(r.Context(), username, date, count); err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}

	state, _ := h.Details.State(username, date)
	respondWithJSON(w, http.StatusAccepted, stateResponse{Date: date, State: state.String()})
}

// getRateLimit reports the remaining core REST quota of the server token.
// GET /v1/rate-limit
func (h *Handler) getRateLimit(w http.ResponseWriter, r *http.Request) {
	rl, err := h.Upstream.FetchRateLimit(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch rate limit", "error", err)
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, rl)
}
