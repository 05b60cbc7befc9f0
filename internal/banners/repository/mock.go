package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	bannerserrors "storefront/internal/banners/errors"
	"storefront/pkg/model"
)

var bannerNamespace = uuid.MustParse("6f1d2c3e-8a4b-4f7e-9c2d-1b5a7e9f0c3d")

// MockBannerID derives the stable id of a mock banner from its slug.
func MockBannerID(slug string) string {
	return uuid.NewSHA1(bannerNamespace, []byte(slug)).String()
}

type mockBannerRepository struct {
	delay   time.Duration
	banners []*model.RawBanner
}

// NewMockBannerRepository serves a fixed set of promotional banners after waiting
// delay on every call, the way the real content API answers on a mobile network.
// The image URL fields use every shape upstream is known to produce.
func NewMockBannerRepository(delay time.Duration) BannerRepository {
	return &mockBannerRepository{
		delay:   delay,
		banners: mockBanners(),
	}
}

func mockBanners() []*model.RawBanner {
	inactive := false
	updated := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	return []*model.RawBanner{
		{
			ID:       MockBannerID("summer-sale"),
			Title:    "Summer Sale",
			Subtitle: "Up to 50% off sandals and swimwear",
			ImageURLs: []any{
				"https://cdn.example.com/banners/summer-1.jpg",
				"https://cdn.example.com/banners/summer-2.jpg",
			},
			LinkURL:   "/promo/summer-sale",
			Priority:  100,
			UpdatedAt: updated,
		},
		{
			ID:        MockBannerID("new-arrivals"),
			Title:     "New  Arrivals",
			Subtitle:  "Fresh picks every week",
			ImageURLs: `["https://cdn.example.com/banners/new-1.jpg","https://cdn.example.com/banners/new-2.jpg"]`,
			LinkURL:   "https://Shop.Example.com/new?utm_source=app",
			Priority:  80,
			UpdatedAt: updated,
		},
		{
			ID:       MockBannerID("flash-deal"),
			Title:    "Flash Deal",
			Subtitle: "Ends tonight",
			ImageURLs: []any{
				`["https://cdn.example.com/banners/flash-1.jpg"`,
				`"https://cdn.example.com/banners/flash-2.jpg"]`,
			},
			LinkURL:   "/promo/flash-deal",
			Priority:  90,
			UpdatedAt: updated,
		},
		{
			ID:        MockBannerID("free-shipping"),
			Title:     "Free Shipping",
			Subtitle:  "On orders over $30",
			ImageURLs: "https://cdn.example.com/banners/shipping-1.jpg, https://cdn.example.com/banners/shipping-2.jpg",
			LinkURL:   "/help/shipping",
			Priority:  50,
			UpdatedAt: updated,
		},
		{
			ID:        MockBannerID("member-day"),
			Title:     "Member Day",
			ImageURLs: "https://cdn.example.com/banners/member.jpg",
			LinkURL:   "/membership",
			Priority:  50,
			UpdatedAt: updated,
		},
		{
			ID:        MockBannerID("spring-clearance"),
			Title:     "Spring Clearance",
			ImageURLs: []any{"https://cdn.example.com/banners/spring.jpg"},
			Priority:  10,
			Active:    &inactive,
			UpdatedAt: updated,
		},
	}
}

func (r *mockBannerRepository) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *mockBannerRepository) FindAll(ctx context.Context) ([]*model.RawBanner, error) {
	if err := r.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", bannerserrors.ErrSourceUnavailable, err)
	}

	out := make([]*model.RawBanner, 0, len(r.banners))
	for _, b := range r.banners {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *mockBannerRepository) FindByID(ctx context.Context, id string) (*model.RawBanner, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bannerserrors.ErrInvalidID, id)
	}

	if err := r.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", bannerserrors.ErrSourceUnavailable, err)
	}

	for _, b := range r.banners {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", bannerserrors.ErrNotFound, id)
}
