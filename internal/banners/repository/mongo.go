package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bannerserrors "storefront/internal/banners/errors"
	"storefront/pkg/config"
	"storefront/pkg/model"
)

const (
	CollectionName = "Banners"
)

// bannerDocument mirrors a stored banner. image_urls stays untyped because documents
// written by the content team's tooling predate the normalized array form.
type bannerDocument struct {
	ID        any       `bson:"_id"`
	Title     string    `bson:"title"`
	Subtitle  string    `bson:"subtitle,omitempty"`
	ImageURLs any       `bson:"image_urls"`
	LinkURL   string    `bson:"link_url,omitempty"`
	Priority  int       `bson:"priority"`
	Active    *bool     `bson:"active,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *bannerDocument) toRaw() *model.RawBanner {
	return &model.RawBanner{
		ID:        documentID(d.ID),
		Title:     d.Title,
		Subtitle:  d.Subtitle,
		ImageURLs: plainImageURLs(d.ImageURLs),
		LinkURL:   d.LinkURL,
		Priority:  d.Priority,
		Active:    d.Active,
		UpdatedAt: d.UpdatedAt,
	}
}

func documentID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprint(v)
	}
}

// plainImageURLs converts driver array types to []any so the value has the same
// dynamic shape as one decoded from JSON.
func plainImageURLs(v any) any {
	switch arr := v.(type) {
	case primitive.A:
		return []any(arr)
	default:
		return v
	}
}

type mongoBannerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// MongoBannerRepository reads banners for the storefront and accepts normalized
// banners from the ingest pipeline.
type MongoBannerRepository interface {
	BannerRepository
	BannerWriter
}

func NewMongoBannerRepository(cfg *config.Config) MongoBannerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBannerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBannerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	if remaining := time.Until(deadline); remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func idFilter(id string) (bson.M, error) {
	if _, err := uuid.Parse(id); err == nil {
		return bson.M{"_id": id}, nil
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}, nil
	}
	return nil, fmt.Errorf("%w: %s", bannerserrors.ErrInvalidID, id)
}

func (r *mongoBannerRepository) FindAll(ctx context.Context) ([]*model.RawBanner, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query banners: %w", bannerserrors.ErrSourceUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []*bannerDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode banners: %w", err)
	}

	banners := make([]*model.RawBanner, 0, len(docs))
	for _, d := range docs {
		banners = append(banners, d.toRaw())
	}
	return banners, nil
}

func (r *mongoBannerRepository) FindByID(ctx context.Context, id string) (*model.RawBanner, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc bannerDocument
	err = r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bannerserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to find banner: %w", bannerserrors.ErrSourceUnavailable, err)
	}
	return doc.toRaw(), nil
}

func (r *mongoBannerRepository) Upsert(ctx context.Context, banner *model.Banner) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	banner.UpdatedAt = banner.UpdatedAt.UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": banner.ID}, banner, opts); err != nil {
		return fmt.Errorf("failed to upsert banner: %w", err)
	}
	return nil
}
