package workbench

import "promptstudio/internal/domain"

// GalleryView selects which projection the gallery is showing. Switching is
// a display filter only; it never refetches.
type GalleryView string

const (
	GalleryHistory   GalleryView = "history"
	GalleryFavorites GalleryView = "favorites"
)

// Snapshot is a copy of the transient workbench state exposed to the view
// layer. Views read it; they never mutate the workbench directly.
type Snapshot struct {
	Mode          domain.InputMode       `json:"mode"`
	Form          domain.FormFields      `json:"form"`
	Seed          string                 `json:"seed"`
	Prompt        string                 `json:"prompt"`
	Image         *domain.GeneratedImage `json:"image,omitempty"`
	PromptPending bool                   `json:"prompt_pending"`
	ImagePending  bool                   `json:"image_pending"`
}

// GallerySnapshot carries both projections plus the active view.
type GallerySnapshot struct {
	View      GalleryView            `json:"view"`
	History   []domain.HistoryRecord `json:"history"`
	Favorites []domain.HistoryRecord `json:"favorites"`
}
