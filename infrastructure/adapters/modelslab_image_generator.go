package adapters

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/domain"
)

// imageResolveTimeout bounds how long a single panel may sit in the
// provider's processing queue before the request is abandoned.
const imageResolveTimeout = 3 * time.Minute

type text2ImgRequest struct {
	Key            string `json:"key"`
	ModelID        string `json:"model_id"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          string `json:"width"`
	Height         string `json:"height"`
	Samples        string `json:"samples"`
	SafetyChecker  bool   `json:"safety_checker"`
}

type modelsLabImageGenerator struct {
	logger  outbound.LoggerPort
	fetcher ContentFetcher
	cfg     *config.ModelsLabConfig
	limiter *rate.Limiter
}

// NewModelsLabImageGenerator produces panel artwork through the ModelsLab
// text2img endpoint. Pending requests are resolved via the fetch endpoint
// before the call returns, so callers always get final image bytes.
func NewModelsLabImageGenerator(cfg *config.ModelsLabConfig, fetcher ContentFetcher, logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &modelsLabImageGenerator{
		logger:  logger,
		fetcher: fetcher,
		cfg:     cfg,
		limiter: newModelsLabLimiter(cfg),
	}
}

func (g *modelsLabImageGenerator) Generate(ctx context.Context, req outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	width := req.Width
	if width == 0 {
		width = g.cfg.ImageWidth
	}
	height := req.Height
	if height == 0 {
		height = g.cfg.ImageHeight
	}

	body, err := g.fetcher.PostJSON(ctx, g.cfg.ApiUrl+"/images/text2img", nil, text2ImgRequest{
		Key:            g.cfg.ApiKey,
		ModelID:        g.cfg.ImageModel,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Width:          strconv.Itoa(width),
		Height:         strconv.Itoa(height),
		Samples:        "1",
		SafetyChecker:  false,
	})
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	decoded, err := decodeModelsLabResponse(body)
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	imageURL, err := g.resolve(ctx, decoded)
	if err != nil {
		return nil, err
	}
	return g.download(ctx, imageURL)
}

// resolve turns the initial provider response into a final image URL,
// polling the fetch endpoint while the request stays in processing.
func (g *modelsLabImageGenerator) resolve(ctx context.Context, decoded *modelsLabResponse) (string, error) {
	deadline := time.NewTimer(imageResolveTimeout)
	defer deadline.Stop()

	for {
		switch decoded.Status {
		case modelsLabStatusSuccess:
			url, err := decoded.firstOutput()
			if err != nil {
				return "", domain.NewGenerationError(err)
			}
			return url, nil
		case modelsLabStatusProcessing:
			requestID := strconv.FormatInt(decoded.ID, 10)
			g.logger.DebugWithFields("image still processing, polling", map[string]interface{}{
				"request_id":  requestID,
				"eta_seconds": decoded.ETA,
			})
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-deadline.C:
				return "", domain.NewTimeoutError(
					fmt.Errorf("image request %s not ready after %s", requestID, imageResolveTimeout))
			case <-time.After(decoded.pollDelay()):
			}
			polled, err := fetchModelsLabRequest(ctx, g.fetcher, g.cfg, requestID)
			if err != nil {
				return "", domain.NewGenerationError(err)
			}
			decoded = polled
		default:
			return "", domain.NewGenerationError(decoded.failure())
		}
	}
}

func (g *modelsLabImageGenerator) download(ctx context.Context, url string) (*outbound.GeneratedImage, error) {
	data, contentType, err := g.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("download image: %w", err))
	}
	if contentType == "" {
		contentType = "image/png"
	}
	return &outbound.GeneratedImage{
		URL:         url,
		Data:        data,
		ContentType: contentType,
	}, nil
}
