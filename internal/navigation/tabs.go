package navigation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"storefront/pkg/model"
)

var defaultTabs = []model.Tab{
	{Key: "home", Title: "Home", Path: "/", Icon: IconHome},
	{Key: "category", Title: "Category", Path: "/category", Icon: IconCategory},
	{Key: "cart", Title: "Cart", Path: "/cart", Icon: IconCart},
	{Key: "profile", Title: "Profile", Path: "/profile", Icon: IconProfile},
}

func newTabValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("known_icon", func(fl validator.FieldLevel) bool {
		_, ok := IconByName(fl.Field().String())
		return ok
	})
	return v
}

// Tabs is the validated bottom tab bar.
type Tabs struct {
	tabs []model.Tab
}

// NewTabs validates tabs against the icon catalog and rejects duplicate keys or paths.
func NewTabs(tabs []model.Tab) (*Tabs, error) {
	if len(tabs) == 0 {
		return nil, errors.New("at least one tab is required")
	}

	v := newTabValidator()
	keys := make(map[string]bool, len(tabs))
	paths := make(map[string]bool, len(tabs))

	for i := range tabs {
		if err := v.Struct(&tabs[i]); err != nil {
			return nil, fmt.Errorf("tab %d (%s): %w", i, tabs[i].Key, err)
		}
		if keys[tabs[i].Key] {
			return nil, fmt.Errorf("duplicate tab key: %s", tabs[i].Key)
		}
		if paths[tabs[i].Path] {
			return nil, fmt.Errorf("duplicate tab path: %s", tabs[i].Path)
		}
		keys[tabs[i].Key] = true
		paths[tabs[i].Path] = true
	}

	return &Tabs{tabs: append([]model.Tab(nil), tabs...)}, nil
}

// DefaultTabs returns the home, category, cart and profile tabs.
func DefaultTabs() *Tabs {
	tabs, err := NewTabs(defaultTabs)
	if err != nil {
		panic(err)
	}
	return tabs
}

func (t *Tabs) List() []model.Tab {
	return append([]model.Tab(nil), t.tabs...)
}
