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

type videoComicEncoder struct {
	logger outbound.LoggerPort
}

// NewVideoComicEncoder delivers the animated deliverable. A single clip is
// returned as the clip itself; multiple clips are bundled into one zip
// archive, named in panel order so playback tools keep the narrative
// sequence.
func NewVideoComicEncoder(logger outbound.LoggerPort) outbound.ComicEncoderPort {
	return &videoComicEncoder{logger: logger}
}

func (e *videoComicEncoder) Format() domain.OutputFormat {
	return domain.FormatVideo
}

func (e *videoComicEncoder) Encode(_ context.Context, req outbound.EncodeComicRequest) (*outbound.EncodedComic, error) {
	if len(req.Clips) == 0 {
		return nil, fmt.Errorf("no clips to encode")
	}

	if len(req.Clips) == 1 {
		clip := req.Clips[0]
		contentType := clip.ContentType
		if contentType == "" {
			contentType = "video/mp4"
		}
		return &outbound.EncodedComic{
			Data:        clip.VideoData,
			ContentType: contentType,
			FileExt:     videoFileExt(contentType),
		}, nil
	}

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	for _, clip := range req.Clips {
		name := fmt.Sprintf("panel_%03d.%s", clip.PanelNumber, videoFileExt(clip.ContentType))
		entry, err := archive.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(clip.VideoData); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return &outbound.EncodedComic{
		Data:        buf.Bytes(),
		ContentType: "application/zip",
		FileExt:     "zip",
	}, nil
}

func videoFileExt(contentType string) string {
	switch {
	case strings.Contains(contentType, "webm"):
		return "webm"
	case strings.Contains(contentType, "quicktime"):
		return "mov"
	default:
		return "mp4"
	}
}
