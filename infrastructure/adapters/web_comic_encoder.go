package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

const webComicTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: #1a1a1a; color: #eee; font-family: Georgia, serif; margin: 0; }
h1 { text-align: center; padding: 2rem 1rem 0.5rem; }
.page { max-width: 860px; margin: 0 auto 3rem; }
.page h2 { font-size: 1rem; color: #999; border-bottom: 1px solid #333; }
.panel { margin: 1.5rem 0; }
.panel img { width: 100%; border: 4px solid #000; box-sizing: border-box; }
.caption { font-style: italic; background: #fff8dc; color: #222; padding: 0.5rem 0.75rem; margin: 0.25rem 0; }
.dialogue { background: #fff; color: #111; border-radius: 12px; padding: 0.5rem 0.75rem; margin: 0.25rem 0 0.25rem 2rem; }
.dialogue .speaker { font-weight: bold; text-transform: uppercase; margin-right: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Pages}}
<section class="page">
<h2>Page {{.Number}}</h2>
{{range .Panels}}
<div class="panel">
<img src="{{.ImageURI}}" alt="Panel {{.Number}}">
{{if .Caption}}<p class="caption">{{.Caption}}</p>{{end}}
{{range .Dialogue}}<p class="dialogue"><span class="speaker">{{.Character}}</span>{{.Text}}</p>{{end}}
</div>
{{end}}
</section>
{{end}}
</body>
</html>
`

type webComicPage struct {
	Number int
	Panels []webComicPanel
}

type webComicPanel struct {
	Number   int
	ImageURI template.URL
	Caption  string
	Dialogue []domain.DialogueLine
}

type webComicData struct {
	Title string
	Pages []webComicPage
}

type webComicEncoder struct {
	logger   outbound.LoggerPort
	template *template.Template
}

// NewWebComicEncoder renders a single self-contained HTML page with the
// artwork inlined as data URIs, grouped by comic page.
func NewWebComicEncoder(logger outbound.LoggerPort) outbound.ComicEncoderPort {
	return &webComicEncoder{
		logger:   logger,
		template: template.Must(template.New("comic").Parse(webComicTemplate)),
	}
}

func (e *webComicEncoder) Format() domain.OutputFormat {
	return domain.FormatWeb
}

func (e *webComicEncoder) Encode(_ context.Context, req outbound.EncodeComicRequest) (*outbound.EncodedComic, error) {
	data := webComicData{Title: req.Title}

	var current *webComicPage
	for i, artwork := range req.Artworks {
		pageNumber := req.Script.Panels[i].PageNumber
		if current == nil || current.Number != pageNumber {
			data.Pages = append(data.Pages, webComicPage{Number: pageNumber})
			current = &data.Pages[len(data.Pages)-1]
		}
		// data: URIs are built here because the template engine refuses
		// non-standard schemes injected through template variables.
		uri := fmt.Sprintf("data:%s;base64,%s", artwork.ContentType,
			base64.StdEncoding.EncodeToString(artwork.ImageData))
		current.Panels = append(current.Panels, webComicPanel{
			Number:   artwork.PanelNumber,
			ImageURI: template.URL(uri),
			Caption:  req.Texts[i].Caption,
			Dialogue: req.Texts[i].Dialogue,
		})
	}

	var buf bytes.Buffer
	if err := e.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render HTML: %w", err)
	}
	return &outbound.EncodedComic{
		Data:        buf.Bytes(),
		ContentType: "text/html; charset=utf-8",
		FileExt:     "html",
	}, nil
}
