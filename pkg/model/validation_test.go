package model

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestBanner_ValidationRules(t *testing.T) {
	validate := validator.New()

	valid := func() *Banner {
		return &Banner{
			ID:        "summer-sale",
			Title:     "Summer Sale",
			ImageURLs: []string{"https://cdn.example.com/banners/summer.jpg"},
			Priority:  10,
			UpdatedAt: time.Now(),
		}
	}

	tests := []struct {
		name        string
		mutate      func(b *Banner)
		expectValid bool
	}{
		{name: "valid banner", mutate: func(b *Banner) {}, expectValid: true},
		{name: "missing id", mutate: func(b *Banner) { b.ID = "" }, expectValid: false},
		{name: "missing title", mutate: func(b *Banner) { b.Title = "" }, expectValid: false},
		{name: "no images", mutate: func(b *Banner) { b.ImageURLs = []string{} }, expectValid: false},
		{name: "relative image", mutate: func(b *Banner) { b.ImageURLs = []string{"/img/summer.jpg"} }, expectValid: false},
		{name: "priority too high", mutate: func(b *Banner) { b.Priority = 5000 }, expectValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(b)
			err := validate.Struct(b)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid banner, got %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestRawBanner_IsActive(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name   string
		active *bool
		want   bool
	}{
		{name: "missing flag", active: nil, want: true},
		{name: "explicit true", active: &yes, want: true},
		{name: "explicit false", active: &no, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &RawBanner{Active: tt.active}
			if got := b.IsActive(); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}
