package outbound

import "context"

// ArtifactStorePort persists produced deliverables keyed by job.
type ArtifactStorePort interface {
	Save(ctx context.Context, jobID, name, contentType string, data []byte) (ref string, err error)
	Load(ctx context.Context, ref string) (data []byte, contentType string, err error)
	DeleteAll(ctx context.Context, jobID string) error
}
