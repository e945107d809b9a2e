package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultOpenRouterModel = "xiaomi/mimo-v2-flash:free"
	DefaultCacheTTL        = time.Hour
)

type OpenRouterConfig struct {
	ApiUrl      string
	ApiKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	CacheTTL    time.Duration
}

func GetOpenRouterConfig() (*OpenRouterConfig, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY must be set")
	}
	apiUrl := os.Getenv("OPENROUTER_API_URL")
	if apiUrl == "" {
		apiUrl = DefaultOpenRouterURL
	}
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = DefaultOpenRouterModel
	}

	temperature := 0.8
	if raw := os.Getenv("LLM_TEMPERATURE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
		}
		temperature = parsed
	}

	maxTokens := 8000
	if raw := os.Getenv("LLM_MAX_TOKENS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
		}
		maxTokens = parsed
	}

	cacheTTL := DefaultCacheTTL
	if raw := os.Getenv("LLM_CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_CACHE_TTL: %w", err)
		}
		cacheTTL = parsed
	}

	return &OpenRouterConfig{
		ApiUrl:      apiUrl,
		ApiKey:      apiKey,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		CacheTTL:    cacheTTL,
	}, nil
}
