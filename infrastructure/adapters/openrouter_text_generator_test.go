package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
)

func openRouterTestConfig(url string) *config.OpenRouterConfig {
	return &config.OpenRouterConfig{
		ApiUrl:      url,
		ApiKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.8,
		MaxTokens:   8000,
		CacheTTL:    time.Minute,
	}
}

func streamChunks(w http.ResponseWriter, chunks ...string) {
	flusher := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	for _, chunk := range chunks {
		_, _ = fmt.Fprintf(w, "data: {\"choices\": [{\"delta\": {\"content\": %q}}]}\n\n", chunk)
		flusher.Flush()
	}
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func TestOpenRouterTextGeneratorAccumulatesStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)

		streamChunks(w, "Once upon ", "a time, ", "a city drifted away.")
	}))
	defer server.Close()

	generator := NewOpenRouterTextGenerator(openRouterTestConfig(server.URL), testLogger{})

	text, err := generator.Generate(context.Background(), outbound.GenerateTextRequest{
		System: "You are a storyteller.",
		Prompt: "Tell me a story.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time, a city drifted away.", text)
}

func TestOpenRouterTextGeneratorCachesCompletions(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		streamChunks(w, "cached answer")
	}))
	defer server.Close()

	generator := NewOpenRouterTextGenerator(openRouterTestConfig(server.URL), testLogger{})
	req := outbound.GenerateTextRequest{Prompt: "same prompt"}

	first, err := generator.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := generator.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err = generator.Generate(context.Background(), outbound.GenerateTextRequest{Prompt: "different prompt"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
