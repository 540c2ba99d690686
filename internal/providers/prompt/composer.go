package prompt

import (
	"strings"

	"promptstudio/internal/domain"
)

var lightingDescriptions = map[string]string{
	"natural":     "natural daylight, soft shadows",
	"studio":      "professional studio lighting, three-point lighting setup",
	"golden_hour": "golden hour lighting, warm tones, soft glow",
	"dramatic":    "dramatic lighting with strong contrast, chiaroscuro effect",
	"soft":        "soft diffused lighting, even illumination",
	"backlit":     "backlit with rim lighting, glowing edges",
}

var cameraDescriptions = map[string]string{
	"eye_level": "shot at eye-level, straight-on perspective",
	"top_down":  "top-down flat lay perspective, bird's eye view",
	"close_up":  "extreme close-up macro shot, detailed textures",
	"wide":      "wide-angle shot, environmental context",
	"45_degree": "shot at 45-degree angle, dynamic composition",
	"low_angle": "low-angle hero shot, powerful perspective",
}

var styleDescriptions = map[string]string{
	"minimalist": "clean minimalist aesthetic, simple composition",
	"luxury":     "luxury premium aesthetic, high-end feel",
	"vibrant":    "vibrant saturated colors, energetic mood",
	"muted":      "muted tones, sophisticated color palette",
	"modern":     "modern contemporary style, sleek design",
	"rustic":     "rustic organic aesthetic, natural materials",
}

// qualityMarkers are appended to every composed prompt so the output reads
// like a commercial photographer's shot list rather than a bare description.
var qualityMarkers = []string{
	"captured with professional DSLR camera, 50mm lens, f/2.8 aperture",
	"8K resolution, ultra-detailed, photorealistic, sharp focus",
	"professional color grading, commercial quality",
	"no artificial elements, natural product placement",
}

// Compose builds the photorealistic commercial prompt from structured form
// fields. Enumerated fields are expanded through the description maps; unset
// ones fall back to a generic professional descriptor.
func Compose(f domain.FormFields) string {
	parts := []string{"Professional commercial photography of " + strings.TrimSpace(f.Subject)}

	if setting := strings.TrimSpace(f.Setting); setting != "" {
		parts = append(parts, "in "+setting)
	}

	parts = append(parts, describe(lightingDescriptions, f.Lighting, "professional lighting"))
	parts = append(parts, describe(cameraDescriptions, f.CameraAngle, "professional camera angle"))

	var styleParts []string
	if style := strings.TrimSpace(f.Style); style != "" {
		styleParts = append(styleParts, describe(styleDescriptions, style, style))
	}
	if mood := strings.TrimSpace(f.Mood); mood != "" {
		styleParts = append(styleParts, mood+" atmosphere")
	}
	if len(styleParts) > 0 {
		parts = append(parts, strings.Join(styleParts, ", "))
	}

	parts = append(parts, qualityMarkers...)

	if details := strings.TrimSpace(f.AdditionalDetails); details != "" {
		parts = append(parts, details)
	}

	return strings.Join(parts, ", ")
}

func describe(m map[string]string, key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if desc, ok := m[strings.ToLower(key)]; ok {
		return desc
	}
	return key
}
