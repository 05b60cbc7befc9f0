package navigation

import "storefront/pkg/model"

const (
	IconHome     = "home"
	IconCategory = "category"
	IconCart     = "cart"
	IconProfile  = "profile"
	IconSearch   = "search"
	IconHeart    = "heart"
	IconLoading  = "loading"
)

var icons = []model.Icon{
	{Name: IconHome, Label: "Home"},
	{Name: IconCategory, Label: "Categories"},
	{Name: IconCart, Label: "Shopping cart"},
	{Name: IconProfile, Label: "My profile"},
	{Name: IconSearch, Label: "Search"},
	{Name: IconHeart, Label: "Wishlist"},
	{Name: IconLoading, Label: "Loading"},
}

var iconsByName = func() map[string]model.Icon {
	m := make(map[string]model.Icon, len(icons))
	for _, icon := range icons {
		m[icon.Name] = icon
	}
	return m
}()

// Icons returns the icon catalog in display order.
func Icons() []model.Icon {
	return append([]model.Icon(nil), icons...)
}

func IconByName(name string) (model.Icon, bool) {
	icon, ok := iconsByName[name]
	return icon, ok
}
