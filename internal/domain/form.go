package domain

import "strings"

// InputMode selects which of the two input surfaces is active. Selecting one
// never clears the other's data.
type InputMode string

const (
	ModeForm     InputMode = "form"
	ModeFreeText InputMode = "freetext"
)

// NormalizeInputMode sanitizes free-form user input into a supported mode.
func NormalizeInputMode(mode string) InputMode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case string(ModeFreeText), "free_text", "text":
		return ModeFreeText
	default:
		return ModeForm
	}
}

// FormFields is the structured description of the desired advertising shot.
// Subject is required; lighting, camera angle and style are limited to the
// fixed sets below or left unset, everything else is free text.
type FormFields struct {
	Subject           string `json:"subject"`
	Setting           string `json:"setting"`
	Lighting          string `json:"lighting"`
	CameraAngle       string `json:"camera_angle"`
	Style             string `json:"style"`
	Mood              string `json:"mood"`
	AdditionalDetails string `json:"additional_details"`
}

var allowedLighting = map[string]struct{}{
	"natural":     {},
	"studio":      {},
	"golden_hour": {},
	"dramatic":    {},
	"soft":        {},
	"backlit":     {},
}

var allowedCameraAngles = map[string]struct{}{
	"eye_level": {},
	"top_down":  {},
	"close_up":  {},
	"wide":      {},
	"45_degree": {},
	"low_angle": {},
}

var allowedStyles = map[string]struct{}{
	"minimalist": {},
	"luxury":     {},
	"vibrant":    {},
	"muted":      {},
	"modern":     {},
	"rustic":     {},
}

// Validate ensures the fields satisfy the form contract before any remote
// call is attempted.
func (f FormFields) Validate() error {
	if strings.TrimSpace(f.Subject) == "" {
		return &ValidationError{Field: "subject", Reason: "is required"}
	}
	if v := strings.ToLower(strings.TrimSpace(f.Lighting)); v != "" {
		if _, ok := allowedLighting[v]; !ok {
			return &ValidationError{Field: "lighting", Reason: "must be one of natural, studio, golden_hour, dramatic, soft, backlit"}
		}
	}
	if v := strings.ToLower(strings.TrimSpace(f.CameraAngle)); v != "" {
		if _, ok := allowedCameraAngles[v]; !ok {
			return &ValidationError{Field: "camera_angle", Reason: "must be one of eye_level, top_down, close_up, wide, 45_degree, low_angle"}
		}
	}
	if v := strings.ToLower(strings.TrimSpace(f.Style)); v != "" {
		if _, ok := allowedStyles[v]; !ok {
			return &ValidationError{Field: "style", Reason: "must be one of minimalist, luxury, vibrant, muted, modern, rustic"}
		}
	}
	return nil
}
