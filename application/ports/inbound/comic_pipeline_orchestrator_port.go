package inbound

import "context"

// ComicPipelineOrchestrator runs the full stage sequence for one queued job.
// All effects are job registry updates; Run never returns an error to the
// scheduler because failures are recorded on the job itself.
type ComicPipelineOrchestrator interface {
	Run(ctx context.Context, jobID string)
}
