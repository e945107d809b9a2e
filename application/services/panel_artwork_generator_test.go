package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

func TestPanelArtworkGeneratorSortsOutOfOrderResults(t *testing.T) {
	var remaining int32 = 6
	imageGen := &fakeImageGenerator{generate: func(_ context.Context, req outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
		// stagger completions so results arrive out of submission order
		time.Sleep(time.Duration(atomic.AddInt32(&remaining, -1)) * time.Millisecond)
		return &outbound.GeneratedImage{
			URL:         "https://img.example/panel",
			Data:        []byte("png-bytes"),
			ContentType: "image/png",
		}, nil
	}}

	generator := NewPanelArtworkGenerator(noopLogger{}, imageGen, 3)
	artworks, err := generator.Generate(context.Background(), sampleScript(6), domain.GenerationInput{ArtStyle: "manga"})
	require.NoError(t, err)

	require.Len(t, artworks, 6)
	for i, art := range artworks {
		assert.Equal(t, i+1, art.PanelNumber)
		assert.NotEmpty(t, art.ImageData)
		assert.Contains(t, art.Prompt, "manga style comic panel")
	}
}

func TestPanelArtworkGeneratorSinglePanelFailureFailsStage(t *testing.T) {
	var calls int32
	imageGen := &fakeImageGenerator{generate: func(context.Context, outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
		if atomic.AddInt32(&calls, 1) == 2 {
			return nil, errors.New("provider rejected prompt")
		}
		return &outbound.GeneratedImage{Data: []byte("ok"), ContentType: "image/png"}, nil
	}}

	generator := NewPanelArtworkGenerator(noopLogger{}, imageGen, 1)
	artworks, err := generator.Generate(context.Background(), sampleScript(4), domain.GenerationInput{})

	require.Error(t, err)
	assert.Nil(t, artworks)
	assert.Equal(t, domain.ErrKindGeneration, domain.KindOf(err))
}

func TestPanelArtworkGeneratorKeepsTimeoutKind(t *testing.T) {
	imageGen := &fakeImageGenerator{generate: func(context.Context, outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
		return nil, domain.NewTimeoutError(fmt.Errorf("image request not ready"))
	}}

	generator := NewPanelArtworkGenerator(noopLogger{}, imageGen, 2)
	_, err := generator.Generate(context.Background(), sampleScript(2), domain.GenerationInput{})

	require.Error(t, err)
	assert.Equal(t, domain.ErrKindTimeout, domain.KindOf(err))
}

// singleWorkerDispatcher mirrors a run pool with one worker: tasks execute
// strictly one at a time on a dedicated goroutine.
type singleWorkerDispatcher struct {
	tasks chan func()
}

func newSingleWorkerDispatcher() *singleWorkerDispatcher {
	d := &singleWorkerDispatcher{tasks: make(chan func())}
	go func() {
		for task := range d.tasks {
			task()
		}
	}()
	return d
}

func (d *singleWorkerDispatcher) Submit(task func()) error {
	d.tasks <- task
	return nil
}

func TestPanelArtworkGeneratorCompletesWhileRunHoldsOnlyWorker(t *testing.T) {
	imageGen := &fakeImageGenerator{generate: func(context.Context, outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
		return &outbound.GeneratedImage{Data: []byte("ok"), ContentType: "image/png"}, nil
	}}
	generator := NewPanelArtworkGenerator(noopLogger{}, imageGen, 2)

	dispatcher := newSingleWorkerDispatcher()
	results := make(chan error, 1)
	require.NoError(t, dispatcher.Submit(func() {
		_, err := generator.Generate(context.Background(), sampleScript(6), domain.GenerationInput{})
		results <- err
	}))

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("artwork stage blocked while its run held the only pool worker")
	}
}

func TestPanelArtworkGeneratorHonorsParallelCap(t *testing.T) {
	var inFlight, peak int32
	imageGen := &fakeImageGenerator{generate: func(context.Context, outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
		now := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return &outbound.GeneratedImage{Data: []byte("ok"), ContentType: "image/png"}, nil
	}}

	generator := NewPanelArtworkGenerator(noopLogger{}, imageGen, 2)
	_, err := generator.Generate(context.Background(), sampleScript(8), domain.GenerationInput{})

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}
