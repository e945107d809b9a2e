package inbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type PanelTextGeneratorPort interface {
	Generate(ctx context.Context, script *domain.ComicScript, input domain.GenerationInput) ([]domain.PanelText, error)
}
