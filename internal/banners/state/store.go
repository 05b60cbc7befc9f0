package state

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"storefront/internal/banners/service"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/pkg/model"
)

const refreshKey = "banners"

// Snapshot is what a client renders: a loading overlay while Loading is set,
// the last good banners otherwise, and the last load error if any.
type Snapshot struct {
	Loading   bool                `json:"loading"`
	Banners   []*model.Banner     `json:"banners"`
	Error     *apperrors.AppError `json:"error,omitempty"`
	UpdatedAt *time.Time          `json:"updatedAt,omitempty"`
}

// Store holds the banner list served to clients and reloads it from the banner service.
type Store struct {
	svc     service.BannerService
	log     *logger.Logger
	group   singleflight.Group
	limiter *rate.Limiter

	mu        sync.RWMutex
	loading   bool
	banners   []*model.Banner
	err       *apperrors.AppError
	updatedAt time.Time
}

// NewStore creates a store that starts in the loading state. minInterval bounds how
// often the upstream source is hit; zero disables the bound.
func NewStore(svc service.BannerService, minInterval time.Duration, log *logger.Logger) *Store {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &Store{
		svc:     svc,
		log:     log.Component("banner-store"),
		limiter: rate.NewLimiter(limit, 1),
		loading: true,
		banners: []*model.Banner{},
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Loading: s.loading,
		Banners: append([]*model.Banner(nil), s.banners...),
		Error:   s.err,
	}
	if snap.Banners == nil {
		snap.Banners = []*model.Banner{}
	}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		snap.UpdatedAt = &t
	}
	return snap
}

// Ready reports whether at least one load has completed successfully.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.updatedAt.IsZero()
}

// Refresh reloads the banners. Concurrent callers share one upstream call. When the
// source was hit too recently the current snapshot is returned unchanged.
func (s *Store) Refresh(ctx context.Context) Snapshot {
	if !s.limiter.Allow() {
		s.log.Debug("Banner refresh throttled")
		return s.Snapshot()
	}

	ch := s.group.DoChan(refreshKey, func() (any, error) {
		s.load(context.WithoutCancel(ctx))
		return nil, nil
	})

	select {
	case <-ch:
	case <-ctx.Done():
	}
	return s.Snapshot()
}

func (s *Store) load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	start := time.Now()
	banners, err := s.svc.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.err = apperrors.AsAppError(err)
		s.log.Warn("Banner refresh failed, keeping previous banners",
			"error", err,
			"kept", len(s.banners),
		)
		return
	}

	s.banners = banners
	s.err = nil
	s.updatedAt = time.Now().UTC()
	s.log.Info("Banners refreshed",
		"count", len(banners),
		"duration", time.Since(start),
	)
}

// Run loads the banners once and then every interval until ctx is done.
// A non-positive interval loads only once.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	s.Refresh(ctx)

	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
