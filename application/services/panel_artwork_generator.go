package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type panelArtworkGenerator struct {
	logger         outbound.LoggerPort
	imageGenerator outbound.ImageGeneratorPort
	maxParallel    int
}

func NewPanelArtworkGenerator(logger outbound.LoggerPort, imageGenerator outbound.ImageGeneratorPort,
	maxParallel int) inbound.PanelArtworkGeneratorPort {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &panelArtworkGenerator{
		logger:         logger,
		imageGenerator: imageGenerator,
		maxParallel:    maxParallel,
	}
}

// Generate requests one image per panel, fanning out up to maxParallel
// requests at a time. The stage is all-or-nothing: any panel failure cancels
// outstanding work and fails the stage. Results are re-sorted by panel number
// because sub-tasks finish out of order.
//
// Sub-tasks run on their own goroutines, never on the pool that runs pipeline
// jobs: a run submitting into the pool it occupies deadlocks once every worker
// is a run. The semaphore alone bounds provider concurrency.
func (g *panelArtworkGenerator) Generate(ctx context.Context, script *domain.ComicScript, input domain.GenerationInput) ([]domain.PanelArtwork, error) {
	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		artworks []domain.PanelArtwork
		firstErr error
	)
	sem := make(chan struct{}, g.maxParallel)

	recordErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for _, panel := range script.Panels {
		panel := panel
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-newCtx.Done():
				return
			}
			if newCtx.Err() != nil {
				return
			}

			prompt := g.buildPrompt(panel, input)
			image, err := g.imageGenerator.Generate(newCtx, outbound.GenerateImageRequest{
				Prompt:         prompt,
				NegativePrompt: "blurry, low quality, distorted, deformed",
			})
			if err != nil {
				g.logger.ErrorWithFields(err, "panel artwork failed", map[string]interface{}{
					"panel": panel.PanelNumber,
				})
				recordErr(fmt.Errorf("panel %d: %w", panel.PanelNumber, err))
				return
			}

			mu.Lock()
			artworks = append(artworks, domain.PanelArtwork{
				PanelNumber: panel.PanelNumber,
				PageNumber:  panel.PageNumber,
				Prompt:      prompt,
				ImageURL:    image.URL,
				ImageData:   image.Data,
				ContentType: image.ContentType,
			})
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		var kindErr *domain.KindError
		if errors.As(firstErr, &kindErr) {
			return nil, firstErr
		}
		return nil, domain.NewGenerationError(firstErr)
	}
	if len(artworks) != len(script.Panels) {
		return nil, domain.NewGenerationError(fmt.Errorf(
			"artwork incomplete: expected %d panels, produced %d", len(script.Panels), len(artworks)))
	}

	sort.Slice(artworks, func(i, j int) bool {
		return artworks[i].PanelNumber < artworks[j].PanelNumber
	})
	return artworks, nil
}

func (g *panelArtworkGenerator) buildPrompt(panel domain.Panel, input domain.GenerationInput) string {
	parts := []string{panel.Description}
	if panel.Mood != "" {
		parts = append(parts, panel.Mood+" mood")
	}
	if panel.CameraAngle != "" {
		parts = append(parts, panel.CameraAngle+" shot")
	}
	parts = append(parts, fmt.Sprintf("%s style comic panel", input.ArtStyle))
	return strings.Join(parts, ", ")
}
