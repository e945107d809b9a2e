package adapters

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/donovanhide/eventsource"
	"github.com/patrickmn/go-cache"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
)

const (
	doneSignal       = "[DONE]"
	streamMaxRetries = 3
)

type chatRequest struct {
	Stream      bool          `json:"stream"`
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunkBody struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type openRouterTextGenerator struct {
	logger outbound.LoggerPort
	cfg    *config.OpenRouterConfig
	cache  *cache.Cache
}

// NewOpenRouterTextGenerator streams chat completions from an
// OpenAI-compatible endpoint and memoizes full completions per prompt.
func NewOpenRouterTextGenerator(cfg *config.OpenRouterConfig, logger outbound.LoggerPort) outbound.TextGeneratorPort {
	return &openRouterTextGenerator{
		logger: logger,
		cfg:    cfg,
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

func (g *openRouterTextGenerator) Generate(ctx context.Context, req outbound.GenerateTextRequest) (string, error) {
	key := g.cacheKey(req)
	if cached, ok := g.cache.Get(key); ok {
		g.logger.Debug("text generation cache hit")
		return cached.(string), nil
	}

	text, err := g.streamCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	g.cache.SetDefault(key, text)
	return text, nil
}

func (g *openRouterTextGenerator) streamCompletion(ctx context.Context, req outbound.GenerateTextRequest) (string, error) {
	httpReq, err := g.createRequest(ctx, req)
	if err != nil {
		g.logger.Error(err, "failed to create completion request")
		return "", err
	}

	stream, err := eventsource.SubscribeWithRequest("", httpReq)
	if err != nil {
		g.logger.Error(err, "failed to subscribe to completion stream")
		return "", err
	}
	defer stream.Close()

	var builder strings.Builder
	retryCount := 0

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == doneSignal {
				return builder.String(), nil
			}
			payload, err := g.extractDelta(ev.Data())
			if err != nil {
				return "", err
			}
			builder.WriteString(payload)
			retryCount = 0
		case err := <-stream.Errors:
			if err == io.EOF {
				return builder.String(), nil
			}
			if retryCount < streamMaxRetries {
				g.logger.WarnWithFields("completion stream error, retrying", map[string]interface{}{
					"retry_count": retryCount,
					"error":       err.Error(),
				})
				retryCount++
				continue
			}
			g.logger.Error(err, "completion stream failed, max retries reached")
			return "", err
		}
	}
}

func (g *openRouterTextGenerator) extractDelta(data string) (string, error) {
	var chunk chatChunkBody
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		g.logger.Error(err, "failed to unmarshal stream chunk")
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

func (g *openRouterTextGenerator) createRequest(ctx context.Context, req outbound.GenerateTextRequest) (*http.Request, error) {
	temperature := req.Temperature
	if temperature == 0 {
		temperature = g.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.cfg.MaxTokens
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Stream:      true,
		Model:       g.cfg.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages:    messages,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ApiUrl, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

func (g *openRouterTextGenerator) cacheKey(req outbound.GenerateTextRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%g|%d",
		g.cfg.Model, req.System, req.Prompt, req.Temperature, req.MaxTokens)))
	return hex.EncodeToString(sum[:])
}
