package model

// Feature is a reusable listing tag ("Water on site", "Fenced", ...)
// attached to plots via `plot_features` and houses via `house_features`.
type Feature struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"` // unique, max 100
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}
