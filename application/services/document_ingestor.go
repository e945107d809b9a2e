package services

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type documentIngestor struct {
	logger outbound.LoggerPort
}

func NewDocumentIngestor(logger outbound.LoggerPort) inbound.DocumentIngestorPort {
	return &documentIngestor{logger: logger}
}

// Ingest validates the request source and normalizes it into plain text.
// Inline text wins over an uploaded document when both are present.
func (d *documentIngestor) Ingest(_ context.Context, input domain.GenerationInput) (*domain.SourceDocument, error) {
	content := strings.TrimSpace(input.Text)
	if content == "" && len(input.Document) > 0 {
		if !utf8.Valid(input.Document) {
			return nil, domain.NewInvalidInputError("document %q is not readable text", input.DocumentName)
		}
		content = strings.TrimSpace(string(input.Document))
	}
	if content == "" {
		return nil, domain.NewInvalidInputError("no source text provided")
	}

	content = sanitizeText(content)
	words := len(strings.Fields(content))
	if words == 0 {
		return nil, domain.NewInvalidInputError("source contains no usable words")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled Comic"
	}

	d.logger.DebugWithFields("ingested source document", map[string]interface{}{
		"title": title,
		"words": words,
	})

	return &domain.SourceDocument{
		Title:     title,
		Content:   content,
		WordCount: words,
	}, nil
}

// sanitizeText drops control characters that confuse downstream prompts while
// keeping newlines for paragraph structure.
func sanitizeText(in string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, in)
}
