package model

type Icon struct {
	Name  string `json:"name" validate:"required"`
	Label string `json:"label" validate:"required"`
}

type Tab struct {
	Key        string `json:"key" validate:"required,alphanum"`
	Title      string `json:"title" validate:"required,max=20"`
	Path       string `json:"path" validate:"required,startswith=/"`
	Icon       string `json:"icon" validate:"required,known_icon"`
	ActiveIcon string `json:"activeIcon,omitempty" validate:"omitempty,known_icon"`
	Badge      int    `json:"badge,omitempty" validate:"min=0"`
}
