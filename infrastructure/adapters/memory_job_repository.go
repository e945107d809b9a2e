package adapters

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type memoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// NewMemoryJobRepository keeps job state in process memory. Every read
// hands out a deep clone so callers can never mutate stored state, and
// Update replaces the whole record under the write lock.
func NewMemoryJobRepository() outbound.JobRepositoryPort {
	return &memoryJobRepository{
		jobs: make(map[string]domain.Job),
	}
}

func (r *memoryJobRepository) Create(_ context.Context, input domain.GenerationInput) (domain.Job, error) {
	now := time.Now().UTC()
	job := domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusQueued,
		Progress:  0,
		Message:   "queued",
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return job.Clone(), nil
}

func (r *memoryJobRepository) Get(_ context.Context, id string) (domain.Job, error) {
	r.mu.RLock()
	job, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return job.Clone(), nil
}

func (r *memoryJobRepository) Update(_ context.Context, id string, apply func(*domain.Job)) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}

	next := stored.Clone()
	apply(&next)
	next.ID = stored.ID
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	r.jobs[id] = next

	return next.Clone(), nil
}

func (r *memoryJobRepository) List(_ context.Context) ([]domain.Job, error) {
	r.mu.RLock()
	jobs := make([]domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

func (r *memoryJobRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}
