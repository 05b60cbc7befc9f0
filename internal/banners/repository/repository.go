package repository

import (
	"context"
	"storefront/pkg/model"
)

// BannerRepository is a read-only banner source returning upstream-shaped banners.
type BannerRepository interface {
	FindAll(ctx context.Context) ([]*model.RawBanner, error)
	FindByID(ctx context.Context, id string) (*model.RawBanner, error)
}

type BannerWriter interface {
	Upsert(ctx context.Context, banner *model.Banner) error
}
