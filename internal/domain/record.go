package domain

import "time"

// DefaultImageMIME is assumed when a restored record carries image data but
// no media type of its own.
const DefaultImageMIME = "image/png"

// GeneratedImage holds the output of a successful image call. Data is the
// base64-encoded payload as returned by the provider.
type GeneratedImage struct {
	Data string `json:"data"`
	MIME string `json:"mime_type"`
}

// RecordParameters captures the source data a prompt was produced from:
// the form fields for form prompts, the free-text seed for enhanced ones.
type RecordParameters struct {
	Form *FormFields `json:"form,omitempty"`
	Seed string      `json:"seed,omitempty"`
}

// HistoryRecord is the persisted unit: a generated prompt, its source
// parameters, optionally the rendered image, plus a favorite flag. Records
// are created by successful image generations, mutated only by favorite
// toggles, and never deleted.
type HistoryRecord struct {
	ID         string           `json:"id"`
	PromptText string           `json:"prompt_text"`
	PromptType InputMode        `json:"prompt_type"`
	Parameters RecordParameters `json:"parameters"`
	ImageData  string           `json:"image_data,omitempty"`
	IsFavorite bool             `json:"is_favorite"`
	CreatedAt  time.Time        `json:"created_at"`
}
