package model

import "time"

// RawBanner is a banner as the upstream content API sends it. ImageURLs is left
// untyped because upstream serializes it as a string, an array, a JSON-encoded
// string or an array of JSON fragments depending on the producer.
type RawBanner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	ImageURLs any       `json:"imageUrls"`
	LinkURL   string    `json:"linkUrl,omitempty"`
	Priority  int       `json:"priority"`
	Active    *bool     `json:"active,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// IsActive treats a missing flag as active.
func (b *RawBanner) IsActive() bool {
	return b.Active == nil || *b.Active
}

type Banner struct {
	ID        string    `json:"id" bson:"_id" validate:"required,max=64"`
	Title     string    `json:"title" bson:"title" validate:"required,min=1,max=120"`
	Subtitle  string    `json:"subtitle,omitempty" bson:"subtitle,omitempty" validate:"max=200"`
	ImageURLs []string  `json:"imageUrls" bson:"image_urls" validate:"required,min=1,max=10,dive,http_url"`
	LinkURL   string    `json:"linkUrl,omitempty" bson:"link_url,omitempty" validate:"omitempty,max=2048"`
	Priority  int       `json:"priority" bson:"priority" validate:"min=0,max=1000"`
	Active    bool      `json:"-" bson:"active"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
