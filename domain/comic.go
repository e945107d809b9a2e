package domain

import "fmt"

// SourceDocument is the validated text extracted from the request input.
type SourceDocument struct {
	Title     string
	Content   string
	WordCount int
}

// Chapter is one narrative unit of the generated story.
type Chapter struct {
	Number  int
	Heading string
	Content string
}

// Story is the structured narrative produced from the source document.
type Story struct {
	Title    string
	Summary  string
	Chapters []Chapter
}

// Panel describes a single comic panel for the artist and letterer.
type Panel struct {
	PanelNumber int    `json:"panel_number"`
	PageNumber  int    `json:"page_number"`
	Description string `json:"description"`
	Mood        string `json:"mood"`
	CameraAngle string `json:"camera_angle"`
}

// ComicScript decomposes the story into an ordered panel sequence.
type ComicScript struct {
	Title      string  `json:"title"`
	TotalPages int     `json:"total_pages"`
	Panels     []Panel `json:"panels"`
}

// Validate checks the structural invariants of a script: at least one panel,
// panel numbers contiguous starting at 1, page numbers positive.
func (s ComicScript) Validate() error {
	if len(s.Panels) == 0 {
		return fmt.Errorf("script has no panels")
	}
	for i, p := range s.Panels {
		if p.PanelNumber != i+1 {
			return fmt.Errorf("panel numbers not contiguous: got %d at position %d", p.PanelNumber, i+1)
		}
		if p.PageNumber < 1 {
			return fmt.Errorf("panel %d has invalid page number %d", p.PanelNumber, p.PageNumber)
		}
		if p.Description == "" {
			return fmt.Errorf("panel %d has empty description", p.PanelNumber)
		}
	}
	return nil
}

// DialogueLine is one utterance attributed to a named character.
type DialogueLine struct {
	Character string `json:"character"`
	Text      string `json:"text"`
}

// PanelText carries the caption and dialogue for one panel.
type PanelText struct {
	PanelNumber int            `json:"panel_number"`
	Caption     string         `json:"caption"`
	Dialogue    []DialogueLine `json:"dialogue"`
}

// PanelArtwork is the generated image for one panel.
type PanelArtwork struct {
	PanelNumber int
	PageNumber  int
	Prompt      string
	ImageURL    string
	ImageData   []byte
	ContentType string
}

// VideoClip is the resolved animated clip for one panel.
type VideoClip struct {
	PanelNumber int
	Prompt      string
	VideoURL    string
	VideoData   []byte
	ContentType string
}
