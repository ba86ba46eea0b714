// internal/details/service.go

// Package details serves the per-day contribution breakdown.
//
// Each (username, date) key moves through Unfetched -> Fetching -> Cached. A
// failed fetch returns the key to Unfetched so the next request retries it.
// Only one upstream call per key is ever in flight; later callers wait on it.
package details

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github-activity/internal/github"
	"github-activity/internal/model"
	"github-activity/internal/normalize"
)

// DefaultFetchTimeout bounds a single upstream detail fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher is the upstream source of raw day details. Both *github.Client and
// *github.ProxyClient satisfy it.
type Fetcher interface {
	FetchContributionDetail(ctx context.Context, username string, day time.Time) (*github.RawDetail, error)
}

// State is the lifecycle position of one (username, date) key.
type State int

const (
	Unfetched State = iota
	Fetching
	Cached
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Cached:
		return "cached"
	default:
		return "unfetched"
	}
}

// Service caches successful detail lookups for the life of the process.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
	timeout time.Duration

	group singleflight.Group

	mu       sync.Mutex
	cached   map[string][]model.ContributionDetail
	inflight map[string]struct{}
}

// NewService creates a detail service. A non-positive timeout uses DefaultFetchTimeout.
func NewService(fetcher Fetcher, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Service{
		fetcher:  fetcher,
		logger:   logger,
		timeout:  timeout,
		cached:   make(map[string][]model.ContributionDetail),
		inflight: make(map[string]struct{}),
	}
}

func cacheKey(username string, day time.Time) string {
	return username + "|" + day.Format(model.DateLayout)
}

// State reports where the key for username and date currently is.
func (s *Service) State(username, date string) (State, error) {
	day, err := model.ParseDay(date)
	if err != nil {
		return Unfetched, err
	}
	key := cacheKey(username, day)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cached[key]; ok {
		return Cached, nil
	}
	if _, ok := s.inflight[key]; ok {
		return Fetching, nil
	}
	return Unfetched, nil
}

// Prefetch starts a background fetch for the day and returns immediately. It
// does nothing when count is 0 or the key is already cached or being fetched.
func (s *Service) Prefetch(ctx context.Context, username, date string, count int) error {
	day, err := model.ParseDay(date)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	key := cacheKey(username, day)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cached[key]; ok {
		return nil
	}
	if _, ok := s.inflight[key]; ok {
		return nil
	}
	s.startLocked(ctx, key, username, day)
	return nil
}

// FetchForView returns the details for the day. A cached result is returned
// without any network call; a fetch already in flight is awaited rather than
// repeated. If ctx ends first the fetch keeps running and still fills the cache.
func (s *Service) FetchForView(ctx context.Context, username, date string, count int) ([]model.ContributionDetail, error) {
	day, err := model.ParseDay(date)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []model.ContributionDetail{}, nil
	}
	key := cacheKey(username, day)

	s.mu.Lock()
	if details, ok := s.cached[key]; ok {
		s.mu.Unlock()
		return slices.Clone(details), nil
	}
	ch := s.startLocked(ctx, key, username, day)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]model.ContributionDetail)), nil
	}
}

// startLocked joins the in-flight call for key or starts a new one. s.mu must be held.
func (s *Service) startLocked(ctx context.Context, key, username string, day time.Time) <-chan singleflight.Result {
	s.inflight[key] = struct{}{}
	return s.group.DoChan(key, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), key, username, day)
	})
}

func (s *Service) fetch(ctx context.Context, key, username string, day time.Time) (any, error) {
	logger := s.logger.With("username", username, "date", day.Format(model.DateLayout))
	logger.Debug("Fetching contribution details")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.fetcher.FetchContributionDetail(ctx, username, day)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
	// Later callers start a fresh call instead of joining this finished one.
	s.group.Forget(key)

	if err != nil {
		logger.Warn("Failed to fetch contribution details", "error", err)
		return nil, fmt.Errorf("fetch contribution details: %w", err)
	}

	details := normalize.ToContributionDetails(raw)
	s.cached[key] = details
	logger.Debug("Cached contribution details", "count", len(details))
	return details, nil
}

// Reconcile compares a day's calendar count with the weight of its details.
// Both numbers are kept; any shortfall in the details is reported as hidden
// (private repository) activity.
func Reconcile(calendarCount int, details []model.ContributionDetail) model.Reconciliation {
	detailCount := 0
	for _, d := range details {
		detailCount += d.Weight()
	}
	hidden := calendarCount - detailCount
	if hidden < 0 {
		hidden = 0
	}
	return model.Reconciliation{
		CalendarCount: calendarCount,
		DetailCount:   detailCount,
		HiddenCount:   hidden,
		Diverges:      calendarCount != detailCount,
	}
}
