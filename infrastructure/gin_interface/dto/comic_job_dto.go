package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnnNaserNabil/ComicX/domain"
)

// GenerateComicRequest binds the multipart form fields of a generation
// request. The source document file is read separately from the form.
type GenerateComicRequest struct {
	Text           string `form:"text"`
	Title          string `form:"title"`
	ArtStyle       string `form:"art_style"`
	TargetPages    int    `form:"target_pages"`
	TargetAudience string `form:"target_audience"`
	OutputFormats  string `form:"output_formats"`
}

// ParseOutputFormats splits the comma-separated formats field and rejects
// anything outside the supported set. An empty field defaults to PDF.
func (r GenerateComicRequest) ParseOutputFormats() ([]domain.OutputFormat, error) {
	raw := strings.TrimSpace(r.OutputFormats)
	if raw == "" {
		return []domain.OutputFormat{domain.FormatPDF}, nil
	}

	seen := make(map[domain.OutputFormat]bool)
	formats := make([]domain.OutputFormat, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		candidate := domain.OutputFormat(strings.ToLower(strings.TrimSpace(part)))
		if candidate == "" {
			continue
		}
		if !knownFormat(candidate) {
			return nil, fmt.Errorf("unsupported output format %q", candidate)
		}
		if !seen[candidate] {
			seen[candidate] = true
			formats = append(formats, candidate)
		}
	}
	if len(formats) == 0 {
		return []domain.OutputFormat{domain.FormatPDF}, nil
	}
	return formats, nil
}

func knownFormat(f domain.OutputFormat) bool {
	for _, known := range domain.KnownOutputFormats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseArtStyle validates the art style against the supported set. An empty
// field defaults to cartoon.
func (r GenerateComicRequest) ParseArtStyle() (string, error) {
	return parseChoice(r.ArtStyle, "art_style", domain.DefaultArtStyle, domain.KnownArtStyles)
}

// ParseTargetAudience validates the audience against the supported set. An
// empty field defaults to general.
func (r GenerateComicRequest) ParseTargetAudience() (string, error) {
	return parseChoice(r.TargetAudience, "target_audience", domain.DefaultTargetAudience, domain.KnownTargetAudiences)
}

func parseChoice(raw, field, fallback string, known []string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return fallback, nil
	}
	for _, candidate := range known {
		if value == candidate {
			return value, nil
		}
	}
	return "", fmt.Errorf("unsupported %s %q", field, raw)
}

type ArtifactResponse struct {
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	DownloadURL string `json:"download_url"`
}

type JobResultResponse struct {
	Title       string                      `json:"title"`
	TotalPages  int                         `json:"total_pages"`
	TotalPanels int                         `json:"total_panels"`
	Artifacts   map[string]ArtifactResponse `json:"artifacts"`
}

type JobErrorResponse struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type JobResponse struct {
	JobID        string             `json:"job_id"`
	Status       string             `json:"status"`
	Progress     float64            `json:"progress"`
	CurrentStage string             `json:"current_stage,omitempty"`
	Message      string             `json:"message,omitempty"`
	Result       *JobResultResponse `json:"result,omitempty"`
	Error        *JobErrorResponse  `json:"error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// NewJobResponse projects a job snapshot onto the wire shape. Artifact refs
// stay internal; clients get download URLs instead.
func NewJobResponse(job domain.Job) JobResponse {
	resp := JobResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		Progress:     job.Progress,
		CurrentStage: job.CurrentStage,
		Message:      job.Message,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	if job.Result != nil {
		result := JobResultResponse{
			Title:       job.Result.Title,
			TotalPages:  job.Result.TotalPages,
			TotalPanels: job.Result.TotalPanels,
			Artifacts:   make(map[string]ArtifactResponse, len(job.Result.Artifacts)),
		}
		for format, artifact := range job.Result.Artifacts {
			result.Artifacts[string(format)] = ArtifactResponse{
				ContentType: artifact.ContentType,
				SizeBytes:   artifact.Size,
				DownloadURL: fmt.Sprintf("/api/v1/download/%s?format=%s", job.ID, format),
			}
		}
		resp.Result = &result
	}
	if job.Error != nil {
		resp.Error = &JobErrorResponse{
			Stage:   job.Error.Stage,
			Kind:    string(job.Error.Kind),
			Message: job.Error.Message,
		}
	}
	return resp
}
