package adapters

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

func testPanelImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeRequest(t *testing.T, panels int) outbound.EncodeComicRequest {
	t.Helper()
	imageData := testPanelImage(t)

	req := outbound.EncodeComicRequest{
		Title:  "The Drifting City",
		Script: domain.ComicScript{Title: "The Drifting City", TotalPages: 1},
	}
	for i := 1; i <= panels; i++ {
		req.Script.Panels = append(req.Script.Panels, domain.Panel{
			PanelNumber: i, PageNumber: 1, Description: "scene",
		})
		req.Artworks = append(req.Artworks, domain.PanelArtwork{
			PanelNumber: i, PageNumber: 1, ImageData: imageData, ContentType: "image/png",
		})
		req.Texts = append(req.Texts, domain.PanelText{
			PanelNumber: i,
			Caption:     "The city lifts off.",
			Dialogue:    []domain.DialogueLine{{Character: "Mira", Text: "Hold on!"}},
		})
		req.Clips = append(req.Clips, domain.VideoClip{
			PanelNumber: i, VideoData: []byte("mp4-bytes"), ContentType: "video/mp4",
		})
	}
	return req
}

func TestPDFComicEncoder(t *testing.T) {
	encoder := NewPDFComicEncoder(testLogger{})
	assert.Equal(t, domain.FormatPDF, encoder.Format())

	encoded, err := encoder.Encode(context.Background(), encodeRequest(t, 2))
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", encoded.ContentType)
	assert.Equal(t, "pdf", encoded.FileExt)
	assert.True(t, bytes.HasPrefix(encoded.Data, []byte("%PDF")))
}

func TestCBZComicEncoder(t *testing.T) {
	encoder := NewCBZComicEncoder(testLogger{})
	assert.Equal(t, domain.FormatCBZ, encoder.Format())

	encoded, err := encoder.Encode(context.Background(), encodeRequest(t, 3))
	require.NoError(t, err)
	assert.Equal(t, "cbz", encoded.FileExt)

	reader, err := zip.NewReader(bytes.NewReader(encoded.Data), int64(len(encoded.Data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 3)
	assert.Equal(t, "001.png", reader.File[0].Name)
	assert.Equal(t, "003.png", reader.File[2].Name)
}

func TestWebComicEncoder(t *testing.T) {
	encoder := NewWebComicEncoder(testLogger{})
	assert.Equal(t, domain.FormatWeb, encoder.Format())

	req := encodeRequest(t, 2)
	encoded, err := encoder.Encode(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "html", encoded.FileExt)

	page := string(encoded.Data)
	assert.Contains(t, page, "<title>The Drifting City</title>")
	assert.Contains(t, page, "The city lifts off.")
	assert.Contains(t, page, "Mira")
	assert.Contains(t, page, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(req.Artworks[0].ImageData)[:16])
	assert.NotContains(t, page, "ZgotmplZ")
}

func TestVideoComicEncoder(t *testing.T) {
	encoder := NewVideoComicEncoder(testLogger{})
	assert.Equal(t, domain.FormatVideo, encoder.Format())

	encoded, err := encoder.Encode(context.Background(), encodeRequest(t, 2))
	require.NoError(t, err)
	assert.Equal(t, "zip", encoded.FileExt)

	reader, err := zip.NewReader(bytes.NewReader(encoded.Data), int64(len(encoded.Data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	assert.Equal(t, "panel_001.mp4", reader.File[0].Name)

	entry, err := reader.File[0].Open()
	require.NoError(t, err)
	defer entry.Close()
	content, err := io.ReadAll(entry)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4-bytes"), content)
}

func TestVideoComicEncoderSingleClipIsServedDirectly(t *testing.T) {
	encoder := NewVideoComicEncoder(testLogger{})

	encoded, err := encoder.Encode(context.Background(), encodeRequest(t, 1))
	require.NoError(t, err)

	assert.Equal(t, "video/mp4", encoded.ContentType)
	assert.Equal(t, "mp4", encoded.FileExt)
	assert.Equal(t, []byte("mp4-bytes"), encoded.Data)
}

func TestVideoComicEncoderWithoutClipsFails(t *testing.T) {
	encoder := NewVideoComicEncoder(testLogger{})
	req := encodeRequest(t, 1)
	req.Clips = nil

	_, err := encoder.Encode(context.Background(), req)
	assert.Error(t, err)
}
