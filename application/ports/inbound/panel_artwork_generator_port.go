package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type PanelArtworkGeneratorPort interface {
	Generate(ctx context.Context, script *domain.ComicScript, input domain.GenerationInput) ([]domain.PanelArtwork, error)
}
