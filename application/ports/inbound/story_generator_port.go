package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type StoryGeneratorPort interface {
	Generate(ctx context.Context, doc *domain.SourceDocument, input domain.GenerationInput) (*domain.Story, error)
}
