package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"promptstudio/internal/domain"
)

type QwenOptions struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// QwenGenerator renders images through DashScope's multimodal generation
// endpoint. The API returns a hosted URL, so the generator downloads the
// bytes before handing the image back.
type QwenGenerator struct {
	httpClient *http.Client
	baseURL    string
	model      string
	token      string
}

func NewQwenGenerator(opts QwenOptions) (*QwenGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("qwen api key is required")
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://dashscope-intl.aliyuncs.com/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "qwen-image-plus"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &QwenGenerator{
		httpClient: client,
		baseURL:    base,
		model:      model,
		token:      strings.TrimSpace(opts.APIKey),
	}, nil
}

type qwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []qwenMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Watermark bool `json:"watermark"`
	} `json:"parameters"`
}

type qwenMessage struct {
	Role    string              `json:"role"`
	Content []map[string]string `json:"content"`
}

type qwenResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content []map[string]string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *QwenGenerator) Generate(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	var payload qwenRequest
	payload.Model = c.model
	payload.Input.Messages = append(payload.Input.Messages, qwenMessage{
		Role:    "user",
		Content: []map[string]string{{"text": prompt}},
	})
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/services/aigc/multimodal-generation/generation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out qwenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("qwen: http %d", resp.StatusCode)
		}
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Message != "" {
			return nil, fmt.Errorf("qwen error: %s (%s)", out.Message, out.Code)
		}
		return nil, fmt.Errorf("qwen: http %d", resp.StatusCode)
	}
	if len(out.Output.Choices) == 0 || len(out.Output.Choices[0].Message.Content) == 0 {
		if out.Message != "" {
			return nil, fmt.Errorf("qwen error: %s (%s)", out.Message, out.Code)
		}
		return nil, errors.New("qwen: empty response")
	}
	imageURL := out.Output.Choices[0].Message.Content[0]["image"]
	if strings.TrimSpace(imageURL) == "" {
		return nil, errors.New("qwen: missing image url")
	}
	return c.fetchImage(ctx, imageURL)
}

func (c *QwenGenerator) fetchImage(ctx context.Context, imageURL string) (*domain.GeneratedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qwen: fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("qwen: fetch image: http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("qwen: fetch image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("qwen: fetched empty image")
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" || strings.HasPrefix(mime, "application/octet-stream") {
		mime = domain.DefaultImageMIME
	}
	return &domain.GeneratedImage{
		Data: base64.StdEncoding.EncodeToString(data),
		MIME: mime,
	}, nil
}

var _ Generator = (*QwenGenerator)(nil)
