package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnnNaserNabil/ComicX/config"
)

// ModelsLab answers every generation endpoint with the same envelope. A
// "processing" status carries a request id that must be polled on the
// fetch endpoint until it resolves.
const (
	modelsLabStatusSuccess    = "success"
	modelsLabStatusProcessing = "processing"
	modelsLabStatusError      = "error"
)

type modelsLabResponse struct {
	Status  string   `json:"status"`
	Output  []string `json:"output"`
	ID      int64    `json:"id"`
	ETA     float64  `json:"eta"`
	Message string   `json:"message"`
}

func (r *modelsLabResponse) firstOutput() (string, error) {
	if len(r.Output) == 0 || r.Output[0] == "" {
		return "", fmt.Errorf("provider reported success with no output")
	}
	return r.Output[0], nil
}

func (r *modelsLabResponse) failure() error {
	if r.Message != "" {
		return fmt.Errorf("provider rejected request: %s", r.Message)
	}
	return fmt.Errorf("provider returned status %q", r.Status)
}

// pollDelay converts the provider's ETA hint into a sane wait between
// fetch attempts.
func (r *modelsLabResponse) pollDelay() time.Duration {
	const (
		minDelay = 3 * time.Second
		maxDelay = 15 * time.Second
	)
	delay := time.Duration(r.ETA * float64(time.Second))
	if delay < minDelay {
		return minDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func newModelsLabLimiter(cfg *config.ModelsLabConfig) *rate.Limiter {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

func decodeModelsLabResponse(body []byte) (*modelsLabResponse, error) {
	var decoded modelsLabResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return &decoded, nil
}

func fetchModelsLabRequest(ctx context.Context, fetcher ContentFetcher, cfg *config.ModelsLabConfig, requestID string) (*modelsLabResponse, error) {
	url := fmt.Sprintf("%s/fetch/%s", cfg.ApiUrl, requestID)
	body, err := fetcher.PostJSON(ctx, url, nil, map[string]interface{}{"key": cfg.ApiKey})
	if err != nil {
		return nil, err
	}
	return decodeModelsLabResponse(body)
}
