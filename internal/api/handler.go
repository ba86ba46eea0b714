// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-activity/internal/activity"
	"github-activity/internal/details"
	"github-activity/internal/github"
	"github-activity/internal/model"
)

// TokenHeader carries a caller-supplied GitHub token for a single request.
const TokenHeader = "X-GitHub-Token"

// ActivityLoader is the aggregation facade.
type ActivityLoader interface {
	LoadActivity(ctx context.Context, username string, opts activity.LoadOptions) (*model.Activity, error)
	Calendar(ctx context.Context, username string, opts activity.LoadOptions) (model.ContributionCalendar, error)
}

// DetailService serves per-day contribution details.
type DetailService interface {
	FetchForView(ctx context.Context, username, date string, count int) ([]model.ContributionDetail, error)
	Prefetch(ctx context.Context, username, date string, count int) error
	State(username, date string) (details.State, error)
}

// Upstream is the server-token GitHub client behind the proxy endpoints.
type Upstream interface {
	Authenticated() bool
	FetchContributionCalendar(ctx context.Context, username string) (*github.RawCalendar, error)
	FetchContributionDetail(ctx context.Context, username string, day time.Time) (*github.RawDetail, error)
	FetchRateLimit(ctx context.Context) (*model.RateLimit, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	Activity        ActivityLoader
	Details         DetailService
	Upstream        Upstream
	DefaultUsername string
}

// Handler is the container for API dependencies.
type Handler struct {
	Deps
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	h := &Handler{
		Deps:   deps,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.healthCheck)

	// Server-side proxy for clients that hold no token.
	r.Route("/api", func(r chi.Router) {
		r.Get("/github-contributions", h.proxyContributions)
		r.Get("/github-contribution-details", h.proxyContributionDetails)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rate-limit", h.getRateLimit)
		r.Get("/activity", h.getActivity)
		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/activity", h.getActivity)
			r.Route("/contributions/{date}", func(r chi.Router) {
				r.Get("/", h.getDayDetails)
				r.Get("/state", h.getDayState)
				r.Post("/prefetch", h.prefetchDay)
			})
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// username returns the {username} path parameter, falling back to the default.
func (h *Handler) username(r *http.Request) string {
	if u := chi.URLParam(r, "username"); u != "" {
		return u
	}
	return h.DefaultUsername
}
