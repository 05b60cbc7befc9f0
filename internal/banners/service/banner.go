package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	bannerserrors "storefront/internal/banners/errors"
	"storefront/internal/banners/repository"
	"storefront/internal/banners/validator"
	"storefront/pkg/config"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/model"
	"storefront/pkg/sanitizer"
)

const bannerSource = "Banner source"

type BannerService interface {
	List(ctx context.Context) ([]*model.Banner, error)
	GetByID(ctx context.Context, id string) (*model.Banner, error)
	Ingest(ctx context.Context, raw *model.RawBanner) (*model.Banner, error)
}

type bannerService struct {
	repo       repository.BannerRepository
	writer     repository.BannerWriter
	validator  *validator.BannerValidator
	normalizer *sanitizer.ImageURLNormalizer
	cfg        *config.Config
}

// NewBannerService builds the banner service. writer may be nil for read-only
// deployments, in which case Ingest fails.
func NewBannerService(
	repo repository.BannerRepository,
	writer repository.BannerWriter,
	validator *validator.BannerValidator,
	cfg *config.Config,
) BannerService {
	return &bannerService{
		repo:       repo,
		writer:     writer,
		validator:  validator,
		normalizer: sanitizer.NewImageURLNormalizer(cfg.Log),
		cfg:        cfg,
	}
}

func (s *bannerService) List(ctx context.Context) ([]*model.Banner, error) {
	raws, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load banners", "error", err)
		return nil, s.sourceError(err)
	}

	banners := make([]*model.Banner, 0, len(raws))
	for _, raw := range raws {
		if !raw.IsActive() {
			continue
		}

		b := s.normalize(raw)
		if err := s.validator.Validate(b); err != nil {
			s.cfg.Log.Warn("Skipping invalid banner",
				"id", raw.ID,
				"title", raw.Title,
				"error", err,
			)
			continue
		}
		banners = append(banners, b)
	}

	sort.SliceStable(banners, func(i, j int) bool {
		if banners[i].Priority != banners[j].Priority {
			return banners[i].Priority > banners[j].Priority
		}
		return banners[i].Title < banners[j].Title
	})

	s.cfg.Log.Debug("Banners loaded",
		"fetched", len(raws),
		"served", len(banners),
	)

	return banners, nil
}

func (s *bannerService) GetByID(ctx context.Context, id string) (*model.Banner, error) {
	if sanitizer.IsBlank(id) {
		return nil, apperrors.InvalidInput("Banner ID cannot be empty")
	}

	raw, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bannerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Banner", id)
		}
		if errors.Is(err, bannerserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid banner ID format")
		}
		s.cfg.Log.Error("Failed to get banner by ID",
			"id", id,
			"error", err,
		)
		return nil, s.sourceError(err)
	}

	if !raw.IsActive() {
		return nil, apperrors.NotFoundWithID("Banner", id)
	}

	b := s.normalize(raw)
	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Banner failed validation",
			"id", id,
			"error", err,
		)
		return nil, apperrors.NotFoundWithID("Banner", id)
	}

	return b, nil
}

func (s *bannerService) Ingest(ctx context.Context, raw *model.RawBanner) (*model.Banner, error) {
	if raw == nil {
		return nil, apperrors.InvalidInput("Banner payload cannot be empty")
	}
	if s.writer == nil {
		return nil, apperrors.Internal("Banner writer is not configured", nil)
	}

	b := s.normalize(raw)
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Banner validation failed",
			"id", b.ID,
			"title", b.Title,
			"error", err,
		)
		return nil, apperrors.Validation("Banner validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.writer.Upsert(ctx, b); err != nil {
		s.cfg.Log.Error("Failed to store banner",
			"id", b.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to store banner", err)
	}

	s.cfg.Log.Info("Banner ingested successfully",
		"id", b.ID,
		"title", b.Title,
		"images", len(b.ImageURLs),
		"active", b.Active,
	)

	return b, nil
}

func (s *bannerService) normalize(raw *model.RawBanner) *model.Banner {
	updatedAt := raw.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	return &model.Banner{
		ID:        sanitizer.TrimAndNormalize(raw.ID),
		Title:     sanitizer.Text.Apply(raw.Title),
		Subtitle:  sanitizer.Text.Apply(raw.Subtitle),
		ImageURLs: s.validator.FilterImageURLs(s.normalizer.Normalize(raw.ImageURLs)),
		LinkURL:   sanitizer.SanitizeLinkURL(raw.LinkURL),
		Priority:  sanitizer.NormalizePriority(raw.Priority),
		Active:    raw.IsActive(),
		UpdatedAt: updatedAt.UTC(),
	}
}

func (s *bannerService) sourceError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout("Banner source did not respond in time")
	}
	return apperrors.Unavailable(bannerSource, err)
}
