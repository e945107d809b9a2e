package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type storyGenerator struct {
	logger        outbound.LoggerPort
	textGenerator outbound.TextGeneratorPort
	chapterRegexp *regexp.Regexp
}

func NewStoryGenerator(logger outbound.LoggerPort, textGenerator outbound.TextGeneratorPort) inbound.StoryGeneratorPort {
	return &storyGenerator{
		logger:        logger,
		textGenerator: textGenerator,
		chapterRegexp: regexp.MustCompile(`(?m)^##\s*(.+)$`),
	}
}

func (s *storyGenerator) Generate(ctx context.Context, doc *domain.SourceDocument, input domain.GenerationInput) (*domain.Story, error) {
	raw, err := s.textGenerator.Generate(ctx, outbound.GenerateTextRequest{
		System: "You are a comic book story editor. You restructure source material into a " +
			"vivid narrative suitable for visual adaptation.",
		Prompt:      s.buildPrompt(doc, input),
		Temperature: 0.8,
	})
	if err != nil {
		return nil, domain.NewGenerationError(fmt.Errorf("story generation: %w", err))
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NewGenerationError(fmt.Errorf("story generation returned empty output"))
	}

	story := s.parseStory(doc.Title, raw)
	s.logger.DebugWithFields("story generated", map[string]interface{}{
		"title":    story.Title,
		"chapters": len(story.Chapters),
	})
	return story, nil
}

func (s *storyGenerator) buildPrompt(doc *domain.SourceDocument, input domain.GenerationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the following source material as a story for a %d-page comic aimed at a %s audience.\n",
		input.TargetPages, input.TargetAudience)
	b.WriteString("Structure the story into chapters. Start every chapter with a markdown heading of the form \"## Chapter title\".\n")
	b.WriteString("Open with a one-paragraph summary before the first chapter heading.\n\n")
	fmt.Fprintf(&b, "Title: %s\n\nSource material:\n%s\n", doc.Title, doc.Content)
	return b.String()
}

// parseStory splits the narrative on chapter headings. Text before the first
// heading becomes the summary; output without headings becomes one chapter.
func (s *storyGenerator) parseStory(title, raw string) *domain.Story {
	locs := s.chapterRegexp.FindAllStringSubmatchIndex(raw, -1)
	story := &domain.Story{Title: title}
	if len(locs) == 0 {
		story.Chapters = []domain.Chapter{{Number: 1, Heading: title, Content: raw}}
		return story
	}

	story.Summary = strings.TrimSpace(raw[:locs[0][0]])
	for i, loc := range locs {
		heading := strings.TrimSpace(raw[loc[2]:loc[3]])
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(raw[loc[1]:end])
		story.Chapters = append(story.Chapters, domain.Chapter{
			Number:  i + 1,
			Heading: heading,
			Content: content,
		})
	}
	return story
}
