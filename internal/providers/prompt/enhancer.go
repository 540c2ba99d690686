package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Enhancer turns a user's informal description into a detailed photorealistic
// prompt. Implementations are remote text-generation services.
type Enhancer interface {
	Enhance(ctx context.Context, seed string) (string, error)
}

// StaticEnhancer is a deterministic enhancer for development and test
// environments where no text-generation service is configured. It wraps the
// seed in the same commercial-photography framing the composer uses.
type StaticEnhancer struct{}

func NewStaticEnhancer() *StaticEnhancer {
	return &StaticEnhancer{}
}

func (s *StaticEnhancer) Enhance(ctx context.Context, seed string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := cases.Title(language.Und)
	subject := strings.TrimSpace(seed)
	parts := []string{
		"Professional commercial photography of " + subject,
		c.String(subject) + " as the hero of the frame",
	}
	parts = append(parts, qualityMarkers...)
	return strings.Join(parts, ", "), nil
}

var _ Enhancer = (*StaticEnhancer)(nil)

const enhanceSystemInstruction = "You are an expert in creating photorealistic image generation prompts for commercial advertising. Transform basic ideas into detailed, professional prompts that will produce images indistinguishable from real photographs."

func buildEnhanceInstruction(seed string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Transform this basic prompt into a highly detailed, photorealistic commercial photography prompt:\n\n%q\n\n", seed)
	sb.WriteString(`Include:
- Specific subject details and product placement
- Professional lighting setup (type, direction, quality)
- Camera specifications (angle, lens, aperture, focal length)
- Composition and framing details
- Color palette and mood
- Texture and material details
- Environmental context and setting
- Professional quality markers (8K, sharp focus, etc.)
- Natural, non-AI aesthetic descriptors

Make it sound like a professional photographer's shot list. Return ONLY the enhanced prompt, no explanations.`)
	return sb.String()
}
