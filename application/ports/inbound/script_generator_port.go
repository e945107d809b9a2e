package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type ScriptGeneratorPort interface {
	Generate(ctx context.Context, story *domain.Story, input domain.GenerationInput) (*domain.ComicScript, error)
}
