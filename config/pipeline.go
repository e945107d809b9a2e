package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// StageWeights are the progress milestones reached after each stage
// completes. They are tunable constants, not derived at runtime.
type StageWeights struct {
	Ingest   float64
	Story    float64
	Script   float64
	Text     float64
	Visual   float64
	Video    float64
	Assembly float64
}

func DefaultStageWeights() StageWeights {
	return StageWeights{
		Ingest:   0.10,
		Story:    0.30,
		Script:   0.50,
		Text:     0.60,
		Visual:   0.85,
		Video:    0.95,
		Assembly: 1.00,
	}
}

type PipelineConfig struct {
	MaxParallelPanels int
	PanelsPerPage     int
	CaptionMaxWords   int
	VideoPollInterval time.Duration
	VideoClipTimeout  time.Duration
	MaxParallelClips  int
	Weights           StageWeights
}

func GetPipelineConfig() (*PipelineConfig, error) {
	cfg := &PipelineConfig{
		MaxParallelPanels: 5,
		PanelsPerPage:     4,
		CaptionMaxWords:   20,
		VideoPollInterval: 5 * time.Second,
		VideoClipTimeout:  5 * time.Minute,
		MaxParallelClips:  2,
		Weights:           DefaultStageWeights(),
	}

	if raw := os.Getenv("MAX_PARALLEL_PANELS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid MAX_PARALLEL_PANELS: %q", raw)
		}
		cfg.MaxParallelPanels = parsed
	}
	if raw := os.Getenv("PANELS_PER_PAGE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid PANELS_PER_PAGE: %q", raw)
		}
		cfg.PanelsPerPage = parsed
	}
	if raw := os.Getenv("VIDEO_POLL_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid VIDEO_POLL_INTERVAL: %w", err)
		}
		cfg.VideoPollInterval = parsed
	}
	if raw := os.Getenv("VIDEO_CLIP_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid VIDEO_CLIP_TIMEOUT: %w", err)
		}
		cfg.VideoClipTimeout = parsed
	}

	return cfg, nil
}
