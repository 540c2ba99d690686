package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	PromptProvider   string
	ImageProvider    string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	GeminiBaseURL    string
	QwenAPIKey       string
	QwenModel        string
	QwenBaseURL      string
	ImageArchiveDir  string
	HistoryLimit     int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// DATABASE_URL may be left empty, in which case the in-memory record store is used.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PromptProvider:   strings.ToLower(getEnv("PROMPT_PROVIDER", "gemini")),
		ImageProvider:    strings.ToLower(getEnv("IMAGE_PROVIDER", "gemini")),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		QwenAPIKey:       os.Getenv("QWEN_API_KEY"),
		QwenModel:        getEnv("QWEN_MODEL", "qwen-image-plus"),
		QwenBaseURL:      getEnv("QWEN_BASE_URL", "https://dashscope-intl.aliyuncs.com/api/v1"),
		ImageArchiveDir:  os.Getenv("IMAGE_ARCHIVE_DIR"),
		HistoryLimit:     getEnvInt("HISTORY_LIMIT", 100),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 150)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.PromptProvider {
	case "gemini", "static":
	default:
		return nil, fmt.Errorf("PROMPT_PROVIDER must be gemini or static, got %q", cfg.PromptProvider)
	}
	switch cfg.ImageProvider {
	case "gemini", "qwen":
	default:
		return nil, fmt.Errorf("IMAGE_PROVIDER must be gemini or qwen, got %q", cfg.ImageProvider)
	}
	if cfg.PromptProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when PROMPT_PROVIDER=gemini")
	}
	if cfg.ImageProvider == "gemini" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when IMAGE_PROVIDER=gemini")
	}
	if cfg.ImageProvider == "qwen" && cfg.QwenAPIKey == "" {
		return nil, fmt.Errorf("QWEN_API_KEY is required when IMAGE_PROVIDER=qwen")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
