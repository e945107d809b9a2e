package config

import (
	"fmt"
	"os"
	"strconv"
)

const DefaultModelsLabURL = "https://modelslab.com/api/v6"

type ModelsLabConfig struct {
	ApiUrl            string
	ApiKey            string
	ImageModel        string
	VideoModel        string
	ImageWidth        int
	ImageHeight       int
	VideoWidth        int
	VideoHeight       int
	VideoFrames       int
	RequestsPerMinute int
}

func GetModelsLabConfig() (*ModelsLabConfig, error) {
	apiKey := os.Getenv("MODELSLAB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("MODELSLAB_API_KEY must be set")
	}
	apiUrl := os.Getenv("MODELSLAB_API_URL")
	if apiUrl == "" {
		apiUrl = DefaultModelsLabURL
	}
	imageModel := os.Getenv("IMAGE_MODEL")
	if imageModel == "" {
		imageModel = "flux"
	}
	videoModel := os.Getenv("VIDEO_MODEL")
	if videoModel == "" {
		videoModel = "cogvideox"
	}

	cfg := &ModelsLabConfig{
		ApiUrl:            apiUrl,
		ApiKey:            apiKey,
		ImageModel:        imageModel,
		VideoModel:        videoModel,
		ImageWidth:        1024,
		ImageHeight:       1024,
		VideoWidth:        512,
		VideoHeight:       512,
		VideoFrames:       25,
		RequestsPerMinute: 30,
	}

	intVars := map[string]*int{
		"IMAGE_WIDTH":               &cfg.ImageWidth,
		"IMAGE_HEIGHT":              &cfg.ImageHeight,
		"VIDEO_WIDTH":               &cfg.VideoWidth,
		"VIDEO_HEIGHT":              &cfg.VideoHeight,
		"VIDEO_FRAMES":              &cfg.VideoFrames,
		"MODELSLAB_REQS_PER_MINUTE": &cfg.RequestsPerMinute,
	}
	for name, target := range intVars {
		if raw := os.Getenv(name); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", name, err)
			}
			*target = parsed
		}
	}

	return cfg, nil
}
