package adapters

import (
	"context"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type text2VideoRequest struct {
	Key       string `json:"key"`
	ModelID   string `json:"model_id"`
	Prompt    string `json:"prompt"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	NumFrames int    `json:"num_frames"`
}

type modelsLabVideoGenerator struct {
	logger  outbound.LoggerPort
	fetcher ContentFetcher
	cfg     *config.ModelsLabConfig
	limiter *rate.Limiter
}

// NewModelsLabVideoGenerator starts clips on the ModelsLab text2video
// endpoint. Unlike image generation the poll loop lives in the caller,
// since clip render times dwarf the request lifecycle.
func NewModelsLabVideoGenerator(cfg *config.ModelsLabConfig, fetcher ContentFetcher, logger outbound.LoggerPort) outbound.VideoGeneratorPort {
	return &modelsLabVideoGenerator{
		logger:  logger,
		fetcher: fetcher,
		cfg:     cfg,
		limiter: newModelsLabLimiter(cfg),
	}
}

func (g *modelsLabVideoGenerator) Start(ctx context.Context, req outbound.GenerateVideoRequest) (*outbound.VideoGenerationHandle, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	width := req.Width
	if width == 0 {
		width = g.cfg.VideoWidth
	}
	height := req.Height
	if height == 0 {
		height = g.cfg.VideoHeight
	}
	frames := req.FrameCount
	if frames == 0 {
		frames = g.cfg.VideoFrames
	}

	body, err := g.fetcher.PostJSON(ctx, g.cfg.ApiUrl+"/video/text2video", nil, text2VideoRequest{
		Key:       g.cfg.ApiKey,
		ModelID:   g.cfg.VideoModel,
		Prompt:    req.Prompt,
		Width:     width,
		Height:    height,
		NumFrames: frames,
	})
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	decoded, err := decodeModelsLabResponse(body)
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	switch decoded.Status {
	case modelsLabStatusSuccess:
		url, err := decoded.firstOutput()
		if err != nil {
			return nil, domain.NewGenerationError(err)
		}
		return &outbound.VideoGenerationHandle{URL: url}, nil
	case modelsLabStatusProcessing:
		return &outbound.VideoGenerationHandle{
			RequestID:  strconv.FormatInt(decoded.ID, 10),
			ETASeconds: int(decoded.ETA),
		}, nil
	default:
		return nil, domain.NewGenerationError(decoded.failure())
	}
}

func (g *modelsLabVideoGenerator) Poll(ctx context.Context, requestID string) (*outbound.VideoPollResult, error) {
	decoded, err := fetchModelsLabRequest(ctx, g.fetcher, g.cfg, requestID)
	if err != nil {
		return nil, err
	}

	switch decoded.Status {
	case modelsLabStatusSuccess:
		url, err := decoded.firstOutput()
		if err != nil {
			return &outbound.VideoPollResult{
				State:   outbound.VideoPollFailed,
				Message: err.Error(),
			}, nil
		}
		return &outbound.VideoPollResult{
			State: outbound.VideoPollCompleted,
			URL:   url,
		}, nil
	case modelsLabStatusProcessing:
		return &outbound.VideoPollResult{State: outbound.VideoPollPending}, nil
	default:
		return &outbound.VideoPollResult{
			State:   outbound.VideoPollFailed,
			Message: decoded.failure().Error(),
		}, nil
	}
}
