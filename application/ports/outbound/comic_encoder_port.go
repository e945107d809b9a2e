package outbound

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/domain"
)

type EncodeComicRequest struct {
	Title    string
	Script   domain.ComicScript
	Texts    []domain.PanelText
	Artworks []domain.PanelArtwork
	Clips    []domain.VideoClip
}

type EncodedComic struct {
	Data        []byte
	ContentType string
	FileExt     string
}

// ComicEncoderPort renders the assembled comic into one output format.
type ComicEncoderPort interface {
	Format() domain.OutputFormat
	Encode(ctx context.Context, req EncodeComicRequest) (*EncodedComic, error)
}
