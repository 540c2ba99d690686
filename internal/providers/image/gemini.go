package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promptstudio/internal/domain"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiGenerator renders images through the Gemini image-preview models.
// The first inline image of the first candidate wins.
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const geminiImageTimeout = 120 * time.Second

type geminiImageRequest struct {
	Contents         []geminiImageContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type geminiImageContent struct {
	Role  string            `json:"role,omitempty"`
	Parts []geminiImagePart `json:"parts"`
}

type geminiImagePart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiImageResponse struct {
	Candidates []struct {
		Content geminiImageContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiImageTimeout}
	}
	return &GeminiGenerator{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	payload := geminiImageRequest{
		Contents: []geminiImageContent{{
			Role:  "user",
			Parts: []geminiImagePart{{Text: prompt}},
		}},
	}
	payload.GenerationConfig.ResponseModalities = []string{"IMAGE", "TEXT"}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	var out geminiImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("gemini: http %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		if out.Error != nil && out.Error.Message != "" {
			return nil, fmt.Errorf("gemini: %s", out.Error.Message)
		}
		return nil, fmt.Errorf("gemini: http %d", resp.StatusCode)
	}
	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = domain.DefaultImageMIME
				}
				return &domain.GeneratedImage{Data: part.InlineData.Data, MIME: mime}, nil
			}
		}
	}
	return nil, errors.New("gemini: no image generated")
}

var _ Generator = (*GeminiGenerator)(nil)
