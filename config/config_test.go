package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOpenRouterConfigRequiresKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	_, err := GetOpenRouterConfig()
	assert.Error(t, err)

	t.Setenv("OPENROUTER_API_KEY", "key")
	cfg, err := GetOpenRouterConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenRouterURL, cfg.ApiUrl)
	assert.Equal(t, DefaultOpenRouterModel, cfg.Model)
}

func TestGetModelsLabConfigDefaultsAndOverrides(t *testing.T) {
	t.Setenv("MODELSLAB_API_KEY", "key")
	t.Setenv("IMAGE_WIDTH", "512")

	cfg, err := GetModelsLabConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultModelsLabURL, cfg.ApiUrl)
	assert.Equal(t, 512, cfg.ImageWidth)
	assert.Equal(t, 1024, cfg.ImageHeight)
	assert.Equal(t, "flux", cfg.ImageModel)

	t.Setenv("VIDEO_FRAMES", "not-a-number")
	_, err = GetModelsLabConfig()
	assert.Error(t, err)
}

func TestGetPipelineConfig(t *testing.T) {
	cfg, err := GetPipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxParallelPanels)
	assert.Equal(t, 5*time.Second, cfg.VideoPollInterval)
	assert.Equal(t, 5*time.Minute, cfg.VideoClipTimeout)

	t.Setenv("VIDEO_CLIP_TIMEOUT", "90s")
	cfg, err = GetPipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.VideoClipTimeout)
}

func TestDefaultStageWeightsAreMonotonic(t *testing.T) {
	w := DefaultStageWeights()
	ordered := []float64{w.Ingest, w.Story, w.Script, w.Text, w.Visual, w.Video, w.Assembly}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i], ordered[i-1])
	}
	assert.Equal(t, 1.0, w.Assembly)
}
