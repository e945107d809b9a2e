package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type panelVideoGenerator struct {
	logger         outbound.LoggerPort
	videoGenerator outbound.VideoGeneratorPort
	mediaFetcher   outbound.MediaFetcherPort
	pollInterval   time.Duration
	clipTimeout    time.Duration
	maxParallel    int
}

func NewPanelVideoGenerator(logger outbound.LoggerPort, videoGenerator outbound.VideoGeneratorPort,
	mediaFetcher outbound.MediaFetcherPort, pollInterval, clipTimeout time.Duration, maxParallel int) inbound.PanelVideoGeneratorPort {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &panelVideoGenerator{
		logger:         logger,
		videoGenerator: videoGenerator,
		mediaFetcher:   mediaFetcher,
		pollInterval:   pollInterval,
		clipTimeout:    clipTimeout,
		maxParallel:    maxParallel,
	}
}

// Generate animates each panel. The provider usually answers with a pending
// request id; each clip is polled until it resolves or its timeout elapses.
func (g *panelVideoGenerator) Generate(ctx context.Context, script *domain.ComicScript, artworks []domain.PanelArtwork, input domain.GenerationInput) ([]domain.VideoClip, error) {
	clips := make([]domain.VideoClip, len(script.Panels))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(g.maxParallel)

	for i, panel := range script.Panels {
		i, panel := i, panel
		grp.Go(func() error {
			clip, err := g.generateClip(grpCtx, panel, input)
			if err != nil {
				return fmt.Errorf("panel %d: %w", panel.PanelNumber, err)
			}
			clips[i] = *clip
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		var kindErr *domain.KindError
		if errors.As(err, &kindErr) {
			return nil, err
		}
		return nil, domain.NewGenerationError(err)
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].PanelNumber < clips[j].PanelNumber
	})
	return clips, nil
}

func (g *panelVideoGenerator) generateClip(ctx context.Context, panel domain.Panel, input domain.GenerationInput) (*domain.VideoClip, error) {
	prompt := fmt.Sprintf("%s, %s style, smooth animation", panel.Description, input.ArtStyle)

	handle, err := g.videoGenerator.Start(ctx, outbound.GenerateVideoRequest{Prompt: prompt})
	if err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("video start: %w", err))
	}

	url := handle.URL
	if url == "" {
		url, err = g.pollUntilResolved(ctx, handle.RequestID)
		if err != nil {
			return nil, err
		}
	}

	data, contentType, err := g.mediaFetcher.Fetch(ctx, url)
	if err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("clip download: %w", err))
	}

	return &domain.VideoClip{
		PanelNumber: panel.PanelNumber,
		Prompt:      prompt,
		VideoURL:    url,
		VideoData:   data,
		ContentType: contentType,
	}, nil
}

// pollUntilResolved queries the provider at a fixed interval until the clip
// completes, the provider reports failure, or the per-clip timeout elapses.
func (g *panelVideoGenerator) pollUntilResolved(ctx context.Context, requestID string) (string, error) {
	deadline := time.NewTimer(g.clipTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", domain.NewTimeoutError(fmt.Errorf(
				"video request %s did not resolve within %s", requestID, g.clipTimeout))
		case <-ticker.C:
			res, err := g.videoGenerator.Poll(ctx, requestID)
			if err != nil {
				g.logger.WarnWithFields("video poll attempt failed", map[string]interface{}{
					"request_id": requestID,
					"error":      err.Error(),
				})
				continue
			}
			switch res.State {
			case outbound.VideoPollCompleted:
				return res.URL, nil
			case outbound.VideoPollFailed:
				return "", domain.NewGenerationError(fmt.Errorf(
					"provider failed video request %s: %s", requestID, res.Message))
			default:
				// still pending, keep polling
			}
		}
	}
}
