package services

import (
	"context"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type noopLogger struct{}

func (noopLogger) Info(string)                                           {}
func (noopLogger) InfoWithFields(string, map[string]interface{})         {}
func (noopLogger) Error(error, string)                                   {}
func (noopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (noopLogger) Debug(string)                                          {}
func (noopLogger) DebugWithFields(string, map[string]interface{})        {}
func (noopLogger) Warn(string)                                           {}
func (noopLogger) WarnWithFields(string, map[string]interface{})         {}

type fakeTextGenerator struct {
	generate func(ctx context.Context, req outbound.GenerateTextRequest) (string, error)
	requests []outbound.GenerateTextRequest
}

func (f *fakeTextGenerator) Generate(ctx context.Context, req outbound.GenerateTextRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.generate(ctx, req)
}

type fakeImageGenerator struct {
	generate func(ctx context.Context, req outbound.GenerateImageRequest) (*outbound.GeneratedImage, error)
}

func (f *fakeImageGenerator) Generate(ctx context.Context, req outbound.GenerateImageRequest) (*outbound.GeneratedImage, error) {
	return f.generate(ctx, req)
}

type fakeVideoGenerator struct {
	start func(ctx context.Context, req outbound.GenerateVideoRequest) (*outbound.VideoGenerationHandle, error)
	poll  func(ctx context.Context, requestID string) (*outbound.VideoPollResult, error)
}

func (f *fakeVideoGenerator) Start(ctx context.Context, req outbound.GenerateVideoRequest) (*outbound.VideoGenerationHandle, error) {
	return f.start(ctx, req)
}

func (f *fakeVideoGenerator) Poll(ctx context.Context, requestID string) (*outbound.VideoPollResult, error) {
	return f.poll(ctx, requestID)
}

type fakeMediaFetcher struct {
	fetch func(ctx context.Context, url string) ([]byte, string, error)
}

func (f *fakeMediaFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if f.fetch != nil {
		return f.fetch(ctx, url)
	}
	return []byte("clip-bytes"), "video/mp4", nil
}

type fakeArtifactStore struct {
	saved map[string][]byte
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{saved: make(map[string][]byte)}
}

func (f *fakeArtifactStore) Save(_ context.Context, jobID, name, _ string, data []byte) (string, error) {
	ref := jobID + "/" + name
	f.saved[ref] = data
	return ref, nil
}

func (f *fakeArtifactStore) Load(_ context.Context, ref string) ([]byte, string, error) {
	data, ok := f.saved[ref]
	if !ok {
		return nil, "", domain.ErrArtifactNotFound
	}
	return data, "application/octet-stream", nil
}

func (f *fakeArtifactStore) DeleteAll(_ context.Context, jobID string) error {
	for ref := range f.saved {
		if len(ref) > len(jobID) && ref[:len(jobID)] == jobID {
			delete(f.saved, ref)
		}
	}
	return nil
}

type fakeEncoder struct {
	format domain.OutputFormat
	err    error
}

func (f *fakeEncoder) Format() domain.OutputFormat { return f.format }

func (f *fakeEncoder) Encode(_ context.Context, req outbound.EncodeComicRequest) (*outbound.EncodedComic, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &outbound.EncodedComic{
		Data:        []byte("encoded " + string(f.format)),
		ContentType: "application/octet-stream",
		FileExt:     string(f.format),
	}, nil
}

func sampleScript(panels int) *domain.ComicScript {
	script := &domain.ComicScript{Title: "The Drifting City", TotalPages: (panels + 3) / 4}
	for i := 1; i <= panels; i++ {
		script.Panels = append(script.Panels, domain.Panel{
			PanelNumber: i,
			PageNumber:  (i-1)/4 + 1,
			Description: "panel description",
			Mood:        "tense",
			CameraAngle: "wide",
		})
	}
	return script
}

func sampleArtworks(panels int) []domain.PanelArtwork {
	artworks := make([]domain.PanelArtwork, 0, panels)
	for i := 1; i <= panels; i++ {
		artworks = append(artworks, domain.PanelArtwork{
			PanelNumber: i,
			PageNumber:  (i-1)/4 + 1,
			ImageData:   []byte("image-bytes"),
			ContentType: "image/png",
		})
	}
	return artworks
}

func sampleTexts(panels int) []domain.PanelText {
	texts := make([]domain.PanelText, 0, panels)
	for i := 1; i <= panels; i++ {
		texts = append(texts, domain.PanelText{PanelNumber: i, Caption: "caption"})
	}
	return texts
}
