package outbound

import "context"

type GenerateVideoRequest struct {
	Prompt     string
	Width      int
	Height     int
	FrameCount int
}

// VideoGenerationHandle is the provider's answer to a start request. URL is
// set when the clip resolved immediately, otherwise RequestID must be polled.
type VideoGenerationHandle struct {
	RequestID  string
	URL        string
	ETASeconds int
}

type VideoPollState string

const (
	VideoPollPending   VideoPollState = "pending"
	VideoPollCompleted VideoPollState = "completed"
	VideoPollFailed    VideoPollState = "failed"
)

type VideoPollResult struct {
	State   VideoPollState
	URL     string
	Message string
}

// VideoGeneratorPort starts clip generation and exposes the provider's
// polling contract; the video stage drives the poll loop.
type VideoGeneratorPort interface {
	Start(ctx context.Context, req GenerateVideoRequest) (*VideoGenerationHandle, error)
	Poll(ctx context.Context, requestID string) (*VideoPollResult, error)
}
