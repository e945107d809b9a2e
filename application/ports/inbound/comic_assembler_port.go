package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type AssembleComicParams struct {
	JobID    string
	Input    domain.GenerationInput
	Script   *domain.ComicScript
	Texts    []domain.PanelText
	Artworks []domain.PanelArtwork
	Clips    []domain.VideoClip
}

type ComicAssemblerPort interface {
	Assemble(ctx context.Context, params AssembleComicParams) (*domain.JobResult, error)
}
