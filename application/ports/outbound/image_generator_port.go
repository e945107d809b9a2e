package outbound

import "context"

type GenerateImageRequest struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
}

type GeneratedImage struct {
	URL         string
	Data        []byte
	ContentType string
}

// ImageGeneratorPort is the narrow contract over an image-generation provider.
// Implementations resolve provider-side pending requests before returning.
type ImageGeneratorPort interface {
	Generate(ctx context.Context, req GenerateImageRequest) (*GeneratedImage, error)
}
