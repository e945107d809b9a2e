package adapters

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type cbzComicEncoder struct {
	logger outbound.LoggerPort
}

// NewCBZComicEncoder packs panel images into a comic book archive. Entries
// are zero-padded so readers page through them in panel order.
func NewCBZComicEncoder(logger outbound.LoggerPort) outbound.ComicEncoderPort {
	return &cbzComicEncoder{logger: logger}
}

func (e *cbzComicEncoder) Format() domain.OutputFormat {
	return domain.FormatCBZ
}

func (e *cbzComicEncoder) Encode(_ context.Context, req outbound.EncodeComicRequest) (*outbound.EncodedComic, error) {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	for _, artwork := range req.Artworks {
		name := fmt.Sprintf("%03d.%s", artwork.PanelNumber, imageFileExt(artwork.ContentType))
		entry, err := archive.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(artwork.ImageData); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return &outbound.EncodedComic{
		Data:        buf.Bytes(),
		ContentType: "application/vnd.comicbook+zip",
		FileExt:     "cbz",
	}, nil
}

func imageFileExt(contentType string) string {
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "jpg"
	case strings.Contains(contentType, "webp"):
		return "webp"
	case strings.Contains(contentType, "gif"):
		return "gif"
	default:
		return "png"
	}
}
