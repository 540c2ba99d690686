package image

import (
	"context"

	"promptstudio/internal/domain"
)

// Generator is the Remote Image Service boundary: a prompt in, rendered
// image bytes plus media type out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error)
}
