// internal/activity/activity.go

// Package activity aggregates a user's stats, languages and contribution
// calendar into a single payload.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github-activity/internal/cache"
	custom_errors "github-activity/internal/errors"
	"github-activity/internal/github"
	"github-activity/internal/model"
	"github-activity/internal/normalize"
)

const DefaultStatsTTL = 5 * time.Minute

// CalendarSource returns the raw contribution calendar for a user.
type CalendarSource interface {
	FetchContributionCalendar(ctx context.Context, username string) (*github.RawCalendar, error)
}

// Upstream is the direct GitHub client used by the facade.
type Upstream interface {
	CalendarSource
	FetchUserProfile(ctx context.Context, username string) (*model.UserProfile, error)
	FetchUserRepositories(ctx context.Context, username string) ([]model.Repository, error)
	Authenticated() bool
}

// LoadOptions tune a single LoadActivity call.
type LoadOptions struct {
	// Token replaces the configured token for this call only.
	Token string
	// UseServerProxy reads the calendar through the proxy endpoints.
	UseServerProxy bool
	// Refresh re-fetches the calendar to pick up today's latest count. The
	// cached calendar is only replaced once the new one arrives.
	Refresh bool
}

// Service is the aggregation facade.
type Service struct {
	upstream      Upstream
	proxy         CalendarSource
	cache         *cache.Cache
	statsTTL      time.Duration
	languageLimit int
	scope         func(token string) Upstream
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithProxy sets the calendar source used when a caller asks for the proxy or
// has no token.
func WithProxy(p CalendarSource) Option {
	return func(s *Service) { s.proxy = p }
}

// WithStatsTTL sets how long profile and repository data is cached.
func WithStatsTTL(d time.Duration) Option {
	return func(s *Service) { s.statsTTL = d }
}

// WithLanguageLimit sets how many languages the distribution keeps.
func WithLanguageLimit(n int) Option {
	return func(s *Service) { s.languageLimit = n }
}

// WithTokenScope builds the upstream used when a call carries its own token.
func WithTokenScope(scope func(token string) Upstream) Option {
	return func(s *Service) { s.scope = scope }
}

// NewService creates the facade over upstream, storing results in c.
func NewService(upstream Upstream, c *cache.Cache, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		upstream:      upstream,
		cache:         c,
		statsTTL:      DefaultStatsTTL,
		languageLimit: normalize.DefaultLanguageLimit,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadActivity fetches profile data and the contribution calendar concurrently.
// Only a profile or repository failure is returned as an error; a calendar
// failure yields an empty calendar and a warning.
func (s *Service) LoadActivity(ctx context.Context, username string, opts LoadOptions) (*model.Activity, error) {
	logger := s.logger.With("username", username)
	up := s.upstreamFor(opts)

	var (
		snapshot model.ProfileSnapshot
		cal      model.ContributionCalendar
		stale    string
		calErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.profileSnapshot(gctx, up, username)
		return err
	})
	g.Go(func() error {
		cal, stale, calErr = s.calendar(gctx, up, username, opts)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to load profile", "error", err)
		return nil, err
	}

	result := &model.Activity{
		Stats:         normalize.ToUserStats(snapshot.Profile, snapshot.Repositories),
		Languages:     normalize.ToLanguageDistribution(snapshot.Repositories, s.languageLimit),
		Contributions: cal,
	}
	if stale != "" {
		result.Warnings = append(result.Warnings, stale)
	}
	if calErr != nil {
		logger.Warn("Contribution calendar unavailable, returning empty calendar", "error", calErr)
		result.Contributions = model.ContributionCalendar{}
		result.Warnings = append(result.Warnings, fmt.Sprintf("contributions unavailable: %v", calErr))
	}
	return result, nil
}

// Calendar returns the contribution calendar on its own, with the same source
// selection and caching as LoadActivity, but surfaces the error. A failed
// refresh falls back to the cached calendar without an error.
func (s *Service) Calendar(ctx context.Context, username string, opts LoadOptions) (model.ContributionCalendar, error) {
	cal, _, err := s.calendar(ctx, s.upstreamFor(opts), username, opts)
	return cal, err
}

func (s *Service) upstreamFor(opts LoadOptions) Upstream {
	if opts.Token != "" && s.scope != nil {
		return s.scope(opts.Token)
	}
	return s.upstream
}

func (s *Service) profileSnapshot(ctx context.Context, up Upstream, username string) (model.ProfileSnapshot, error) {
	key := cache.Key{Kind: cache.KindProfile, Username: username}
	return cache.GetOrFetch(ctx, s.cache, key, s.statsTTL, func(ctx context.Context) (model.ProfileSnapshot, error) {
		var (
			profile *model.UserProfile
			repos   []model.Repository
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			profile, err = up.FetchUserProfile(gctx, username)
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			repos, err = up.FetchUserRepositories(gctx, username)
			if err != nil {
				return fmt.Errorf("fetch repositories: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return model.ProfileSnapshot{}, err
		}
		return model.ProfileSnapshot{Profile: *profile, Repositories: repos}, nil
	})
}

// calendar returns the cached calendar or fetches it. When a refresh fails and a
// calendar is already cached, that calendar is returned with a warning.
func (s *Service) calendar(ctx context.Context, up Upstream, username string, opts LoadOptions) (model.ContributionCalendar, string, error) {
	key := cache.Key{Kind: cache.KindContributions, Username: username}
	fetch := func(ctx context.Context) (model.ContributionCalendar, error) {
		src, err := s.calendarSource(up, opts)
		if err != nil {
			return nil, err
		}
		raw, err := src.FetchContributionCalendar(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("fetch contribution calendar: %w", err)
		}
		return normalize.ToContributionCalendar(raw.Weeks), nil
	}

	if !opts.Refresh {
		cal, err := cache.GetOrFetch(ctx, s.cache, key, cache.Forever, fetch)
		return cal, "", err
	}

	cal, err := fetch(ctx)
	if err == nil {
		s.cache.Set(key, cal, cache.Forever)
		return cal, "", nil
	}
	if cached, ok := cache.Lookup[model.ContributionCalendar](s.cache, key); ok {
		s.logger.Warn("Calendar refresh failed, keeping cached calendar", "username", username, "error", err)
		return cached, fmt.Sprintf("contributions refresh failed, showing cached data: %v", err), nil
	}
	return nil, "", err
}

func (s *Service) calendarSource(up Upstream, opts LoadOptions) (CalendarSource, error) {
	switch {
	case opts.UseServerProxy && s.proxy != nil:
		return s.proxy, nil
	case up.Authenticated():
		return up, nil
	case s.proxy != nil:
		return s.proxy, nil
	default:
		return nil, custom_errors.ErrNoCalendarSource
	}
}
