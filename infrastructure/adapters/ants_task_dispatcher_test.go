package adapters

import (
	"sync"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAntsTaskDispatcherRejectsWhenSaturated(t *testing.T) {
	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	require.NoError(t, err)
	defer pool.Release()

	dispatcher := NewAntsTaskDispatcher(pool)

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, dispatcher.Submit(func() {
		defer wg.Done()
		<-release
	}))

	// the only worker is busy; a nonblocking pool must refuse, not queue
	err = dispatcher.Submit(func() {})
	assert.ErrorIs(t, err, ants.ErrPoolOverload)

	close(release)
	wg.Wait()
}
