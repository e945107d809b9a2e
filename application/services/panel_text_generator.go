package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type panelTextGenerator struct {
	logger          outbound.LoggerPort
	textGenerator   outbound.TextGeneratorPort
	captionMaxWords int
}

func NewPanelTextGenerator(logger outbound.LoggerPort, textGenerator outbound.TextGeneratorPort, captionMaxWords int) inbound.PanelTextGeneratorPort {
	return &panelTextGenerator{
		logger:          logger,
		textGenerator:   textGenerator,
		captionMaxWords: captionMaxWords,
	}
}

// Generate produces captions and dialogue for every panel in one batched
// provider call. The response must cover each panel exactly once or the
// stage fails.
func (g *panelTextGenerator) Generate(ctx context.Context, script *domain.ComicScript, input domain.GenerationInput) ([]domain.PanelText, error) {
	raw, err := g.textGenerator.Generate(ctx, outbound.GenerateTextRequest{
		System: "You are a comic book letterer. You answer with a single JSON array " +
			"and no commentary.",
		Prompt:      g.buildPrompt(script, input),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("panel text generation: %w", err))
	}

	var texts []domain.PanelText
	if err := json.Unmarshal([]byte(extractJSON(raw)), &texts); err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("panel text generation returned malformed JSON: %w", err))
	}
	if len(texts) != len(script.Panels) {
		return nil, domain.NewGenerationError(fmt.Errorf(
			"panel text count mismatch: script has %d panels, provider returned %d", len(script.Panels), len(texts)))
	}

	byNumber := make(map[int]domain.PanelText, len(texts))
	for _, t := range texts {
		if _, dup := byNumber[t.PanelNumber]; dup {
			return nil, domain.NewGenerationError(fmt.Errorf("duplicate panel number %d in provider response", t.PanelNumber))
		}
		byNumber[t.PanelNumber] = t
	}

	out := make([]domain.PanelText, 0, len(script.Panels))
	for _, p := range script.Panels {
		t, ok := byNumber[p.PanelNumber]
		if !ok {
			return nil, domain.NewGenerationError(fmt.Errorf("provider response missing panel %d", p.PanelNumber))
		}
		t.Caption = truncateWords(t.Caption, g.captionMaxWords)
		out = append(out, t)
	}
	return out, nil
}

func (g *panelTextGenerator) buildPrompt(script *domain.ComicScript, input domain.GenerationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write captions and dialogue for the comic %q, aimed at a %s audience.\n",
		script.Title, input.TargetAudience)
	fmt.Fprintf(&b, "Respond with a JSON array holding exactly one object per panel, %d objects total:\n", len(script.Panels))
	b.WriteString(`[{"panel_number": 1, "caption": "short narration", ` +
		`"dialogue": [{"character": "Name", "text": "line"}]}]` + "\n")
	fmt.Fprintf(&b, "Captions must stay under %d words. A panel may have an empty caption or no dialogue.\n\n", g.captionMaxWords)
	for _, p := range script.Panels {
		fmt.Fprintf(&b, "Panel %d (page %d, mood %s): %s\n", p.PanelNumber, p.PageNumber, p.Mood, p.Description)
	}
	return b.String()
}

func truncateWords(s string, max int) string {
	if max <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}
