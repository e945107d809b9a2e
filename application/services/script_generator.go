package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

var jsonFenceRegexp = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

type scriptGenerator struct {
	logger        outbound.LoggerPort
	textGenerator outbound.TextGeneratorPort
	panelsPerPage int
}

func NewScriptGenerator(logger outbound.LoggerPort, textGenerator outbound.TextGeneratorPort, panelsPerPage int) inbound.ScriptGeneratorPort {
	return &scriptGenerator{
		logger:        logger,
		textGenerator: textGenerator,
		panelsPerPage: panelsPerPage,
	}
}

func (s *scriptGenerator) Generate(ctx context.Context, story *domain.Story, input domain.GenerationInput) (*domain.ComicScript, error) {
	raw, err := s.textGenerator.Generate(ctx, outbound.GenerateTextRequest{
		System: "You are a comic book scriptwriter. You answer with a single JSON object " +
			"and no commentary.",
		Prompt:      s.buildPrompt(story, input),
		Temperature: 0.6,
	})
	if err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("script generation: %w", err))
	}

	var script domain.ComicScript
	if err := json.Unmarshal([]byte(extractJSON(raw)), &script); err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("script generation returned malformed JSON: %w", err))
	}
	if script.Title == "" {
		script.Title = story.Title
	}
	if err := script.Validate(); err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("script validation: %w", err))
	}
	if script.TotalPages < 1 {
		script.TotalPages = script.Panels[len(script.Panels)-1].PageNumber
	}

	s.logger.DebugWithFields("script generated", map[string]interface{}{
		"panels": len(script.Panels),
		"pages":  script.TotalPages,
	})
	return &script, nil
}

func (s *scriptGenerator) buildPrompt(story *domain.Story, input domain.GenerationInput) string {
	targetPanels := input.TargetPages * s.panelsPerPage
	var b strings.Builder
	fmt.Fprintf(&b, "Decompose the story below into a comic script of about %d panels across %d pages.\n",
		targetPanels, input.TargetPages)
	b.WriteString("Respond with JSON matching this shape exactly:\n")
	b.WriteString(`{"title": "...", "total_pages": N, "panels": [{"panel_number": 1, "page_number": 1, ` +
		`"description": "what the artist draws", "mood": "tense", "camera_angle": "wide"}]}` + "\n")
	b.WriteString("Panel numbers must start at 1 and increase by 1 with no gaps.\n\n")
	fmt.Fprintf(&b, "Title: %s\nSummary: %s\n\n", story.Title, story.Summary)
	for _, ch := range story.Chapters {
		fmt.Fprintf(&b, "## %s\n%s\n\n", ch.Heading, ch.Content)
	}
	return b.String()
}

// extractJSON unwraps a markdown code fence when the model adds one and
// otherwise trims to the outermost braces.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := jsonFenceRegexp.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.IndexAny(raw, "{[")
	if start < 0 {
		return raw
	}
	var end int
	if raw[start] == '{' {
		end = strings.LastIndex(raw, "}")
	} else {
		end = strings.LastIndex(raw, "]")
	}
	if end <= start {
		return raw
	}
	return raw[start : end+1]
}
