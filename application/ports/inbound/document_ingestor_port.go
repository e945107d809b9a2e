package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type DocumentIngestorPort interface {
	Ingest(ctx context.Context, input domain.GenerationInput) (*domain.SourceDocument, error)
}
