package adapters

import (
	"github.com/panjf2000/ants/v2"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
)

type antsTaskDispatcher struct {
	pool *ants.Pool
}

// NewAntsTaskDispatcher exposes the shared ants pool through the
// TaskDispatcher port.
func NewAntsTaskDispatcher(pool *ants.Pool) outbound.TaskDispatcher {
	return &antsTaskDispatcher{pool: pool}
}

func (d *antsTaskDispatcher) Submit(task func()) error {
	return d.pool.Submit(task)
}
