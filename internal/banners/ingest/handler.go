package ingest

import (
	"context"
	"errors"

	"storefront/internal/banners/service"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/kafka"
	"storefront/pkg/logger"
	"storefront/pkg/model"
)

const (
	EventBannerIngested = "banner.ingested"
	eventSchemaVersion  = "1"
	eventSource         = "banner-ingest"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BannerIngested is announced after a banner has been stored.
type BannerIngested struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	ImageURLs []string `json:"imageUrls"`
	Priority  int      `json:"priority"`
	Active    bool     `json:"active"`
}

type Handler struct {
	service   service.BannerService
	publisher Publisher
	log       *logger.Logger
}

// NewHandler builds the consumer handler. publisher may be nil.
func NewHandler(svc service.BannerService, publisher Publisher, log *logger.Logger) *Handler {
	return &Handler{
		service:   svc,
		publisher: publisher,
		log:       log,
	}
}

// Handle decodes an upstream banner payload and stores it. Undecodable and invalid
// payloads are permanent failures, everything else may be retried.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var raw model.RawBanner
	if err := msg.DecodeValue(&raw); err != nil {
		return kafka.NewPermanentError("failed to decode banner payload", err)
	}
	if raw.ID == "" {
		raw.ID = msg.Key
	}

	banner, err := h.service.Ingest(ctx, &raw)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && (appErr.Code == apperrors.CodeValidation || appErr.Code == apperrors.CodeInvalidInput) {
			return kafka.NewPermanentError("banner rejected", err)
		}
		return kafka.NewTransientError("failed to ingest banner", err)
	}

	h.announce(ctx, msg, banner)
	return nil
}

func (h *Handler) announce(ctx context.Context, src kafka.Message, b *model.Banner) {
	if h.publisher == nil {
		return
	}

	event, err := kafka.NewMessage().
		WithKey(b.ID).
		WithValue(BannerIngested{
			ID:        b.ID,
			Title:     b.Title,
			ImageURLs: b.ImageURLs,
			Priority:  b.Priority,
			Active:    b.Active,
		}).
		WithEventType(EventBannerIngested).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(eventSource).
		WithCorrelationID(src.GetEventID()).
		Build()
	if err != nil {
		h.log.Error("Failed to build banner event", "id", b.ID, "error", err)
		return
	}

	// The banner is already stored; a lost event must not replay the message.
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.log.Warn("Failed to publish banner event",
			"id", b.ID,
			"event_id", event.GetEventID(),
			"error", err,
		)
	}
}
