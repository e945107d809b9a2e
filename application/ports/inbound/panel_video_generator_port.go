package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type PanelVideoGeneratorPort interface {
	Generate(ctx context.Context, script *domain.ComicScript, artworks []domain.PanelArtwork, input domain.GenerationInput) ([]domain.VideoClip, error)
}
