package adapters

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type pdfComicEncoder struct {
	logger outbound.LoggerPort
}

// NewPDFComicEncoder renders the comic as an A4 portrait PDF, one panel
// per page with the caption and dialogue lettered beneath the artwork.
func NewPDFComicEncoder(logger outbound.LoggerPort) outbound.ComicEncoderPort {
	return &pdfComicEncoder{logger: logger}
}

func (e *pdfComicEncoder) Format() domain.OutputFormat {
	return domain.FormatPDF
}

func (e *pdfComicEncoder) Encode(_ context.Context, req outbound.EncodeComicRequest) (*outbound.EncodedComic, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(req.Title, true)
	pdf.SetAutoPageBreak(false, 0)

	e.addTitlePage(pdf, req)

	for i, artwork := range req.Artworks {
		if err := e.addPanelPage(pdf, req.Script.Panels[i], artwork, req.Texts[i]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return &outbound.EncodedComic{
		Data:        buf.Bytes(),
		ContentType: "application/pdf",
		FileExt:     "pdf",
	}, nil
}

func (e *pdfComicEncoder) addTitlePage(pdf *fpdf.Fpdf, req outbound.EncodeComicRequest) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetY(110)
	pdf.MultiCell(0, 14, req.Title, "", "C", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Ln(8)
	pdf.MultiCell(0, 8, fmt.Sprintf("%d pages, %d panels", req.Script.TotalPages, len(req.Script.Panels)), "", "C", false)
}

func (e *pdfComicEncoder) addPanelPage(pdf *fpdf.Fpdf, panel domain.Panel, artwork domain.PanelArtwork, text domain.PanelText) error {
	pdf.AddPage()

	imageName := fmt.Sprintf("panel-%d", artwork.PanelNumber)
	options := fpdf.ImageOptions{ImageType: pdfImageType(artwork.ContentType)}
	pdf.RegisterImageOptionsReader(imageName, options, bytes.NewReader(artwork.ImageData))
	if pdf.Err() {
		return fmt.Errorf("register panel %d image: %w", artwork.PanelNumber, pdf.Error())
	}
	pdf.ImageOptions(imageName, 10, 12, 190, 190, false, options, 0, "")

	pdf.SetY(208)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, fmt.Sprintf("Page %d / Panel %d", panel.PageNumber, panel.PanelNumber), "", 1, "R", false, 0, "")

	if text.Caption != "" {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, text.Caption, "", "L", false)
		pdf.Ln(2)
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range text.Dialogue {
		pdf.MultiCell(0, 6, fmt.Sprintf("%s: %s", strings.ToUpper(line.Character), line.Text), "", "L", false)
	}

	if pdf.Err() {
		return fmt.Errorf("render panel %d page: %w", artwork.PanelNumber, pdf.Error())
	}
	return nil
}

func pdfImageType(contentType string) string {
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "JPG"
	case strings.Contains(contentType, "gif"):
		return "GIF"
	default:
		return "PNG"
	}
}
