package outbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

// JobRepositoryPort stores job state. Reads return snapshots; Update applies
// the mutation atomically so readers never observe a half-written job.
type JobRepositoryPort interface {
	Create(ctx context.Context, input domain.GenerationInput) (domain.Job, error)
	Get(ctx context.Context, id string) (domain.Job, error)
	Update(ctx context.Context, id string, apply func(*domain.Job)) (domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
	Delete(ctx context.Context, id string) error
}
