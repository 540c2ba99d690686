package prompt

import (
	"context"
	"errors"
	"strings"

	"promptstudio/internal/domain"
)

// Service is the Remote Prompt Service boundary the orchestrator talks to:
// structured form fields on one side, free-text seeds on the other.
type Service struct {
	enhancer Enhancer
}

func NewService(enhancer Enhancer) (*Service, error) {
	if enhancer == nil {
		return nil, errors.New("prompt: enhancer is required")
	}
	return &Service{enhancer: enhancer}, nil
}

// GenerateFromForm produces the prompt for a validated set of form fields.
func (s *Service) GenerateFromForm(ctx context.Context, fields domain.FormFields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Compose(fields), nil
}

// Enhance delegates the free-text seed to the configured text model.
func (s *Service) Enhance(ctx context.Context, seed string) (string, error) {
	out, err := s.enhancer.Enhance(ctx, seed)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("prompt: enhancer returned empty prompt")
	}
	return out, nil
}
