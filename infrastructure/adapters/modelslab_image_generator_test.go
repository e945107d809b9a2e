package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/domain"
)

func modelsLabTestConfig(url string) *config.ModelsLabConfig {
	return &config.ModelsLabConfig{
		ApiUrl:            url,
		ApiKey:            "test-key",
		ImageModel:        "flux",
		VideoModel:        "cogvideox",
		ImageWidth:        1024,
		ImageHeight:       1024,
		VideoWidth:        512,
		VideoHeight:       512,
		VideoFrames:       25,
		RequestsPerMinute: 100000,
	}
}

func TestModelsLabImageGeneratorImmediateSuccess(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/images/text2img", func(w http.ResponseWriter, r *http.Request) {
		var body text2ImgRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-key", body.Key)
		assert.Equal(t, "flux", body.ModelID)
		assert.Equal(t, "a drifting city", body.Prompt)
		assert.Equal(t, "1024", body.Width)

		_, _ = fmt.Fprintf(w, `{"status": "success", "output": ["%s/files/img.png"], "id": 7}`, server.URL)
	})
	mux.HandleFunc("/files/img.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewContentFetcher(testLogger{}, server.Client())
	generator := NewModelsLabImageGenerator(modelsLabTestConfig(server.URL), fetcher, testLogger{})

	image, err := generator.Generate(context.Background(), outbound.GenerateImageRequest{Prompt: "a drifting city"})
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), image.Data)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Contains(t, image.URL, "/files/img.png")
}

func TestModelsLabImageGeneratorProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "message": "invalid api key"}`))
	}))
	defer server.Close()

	fetcher := NewContentFetcher(testLogger{}, server.Client())
	generator := NewModelsLabImageGenerator(modelsLabTestConfig(server.URL), fetcher, testLogger{})

	_, err := generator.Generate(context.Background(), outbound.GenerateImageRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrKindGeneration, domain.KindOf(err))
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestModelsLabImageGeneratorSuccessWithoutOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "output": []}`))
	}))
	defer server.Close()

	fetcher := NewContentFetcher(testLogger{}, server.Client())
	generator := NewModelsLabImageGenerator(modelsLabTestConfig(server.URL), fetcher, testLogger{})

	_, err := generator.Generate(context.Background(), outbound.GenerateImageRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
}

func TestModelsLabResponsePollDelayClamps(t *testing.T) {
	assert.Equal(t, 3*time.Second, (&modelsLabResponse{ETA: 0}).pollDelay())
	assert.Equal(t, 5*time.Second, (&modelsLabResponse{ETA: 5}).pollDelay())
	assert.Equal(t, 15*time.Second, (&modelsLabResponse{ETA: 600}).pollDelay())
}
