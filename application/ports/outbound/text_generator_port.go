package outbound

import "context"

type GenerateTextRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// TextGeneratorPort is the narrow contract over a text-generation provider.
type TextGeneratorPort interface {
	Generate(ctx context.Context, req GenerateTextRequest) (string, error)
}
