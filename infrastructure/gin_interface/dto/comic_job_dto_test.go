package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnNaserNabil/ComicX/domain"
)

func TestParseOutputFormats(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []domain.OutputFormat
		wantErr bool
	}{
		{"empty defaults to pdf", "", []domain.OutputFormat{domain.FormatPDF}, false},
		{"single", "cbz", []domain.OutputFormat{domain.FormatCBZ}, false},
		{"multiple with spaces", " pdf , web ", []domain.OutputFormat{domain.FormatPDF, domain.FormatWeb}, false},
		{"uppercase accepted", "PDF", []domain.OutputFormat{domain.FormatPDF}, false},
		{"duplicates collapsed", "pdf,pdf,video", []domain.OutputFormat{domain.FormatPDF, domain.FormatVideo}, false},
		{"unknown rejected", "pdf,docx", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateComicRequest{OutputFormats: tt.raw}.ParseOutputFormats()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArtStyleAndTargetAudience(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		audience string
		wantS    string
		wantA    string
		wantErr  bool
	}{
		{"empty fields default", "", "", "cartoon", "general", false},
		{"valid values pass through", "manga", "teen", "manga", "teen", false},
		{"case and spacing normalized", " Watercolor ", " CHILDREN ", "watercolor", "children", false},
		{"unknown style rejected", "gothic", "general", "", "", true},
		{"unknown audience rejected", "manga", "toddlers", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := GenerateComicRequest{ArtStyle: tt.style, TargetAudience: tt.audience}
			style, styleErr := req.ParseArtStyle()
			audience, audienceErr := req.ParseTargetAudience()
			if tt.wantErr {
				require.Error(t, errors.Join(styleErr, audienceErr))
				return
			}
			require.NoError(t, styleErr)
			require.NoError(t, audienceErr)
			assert.Equal(t, tt.wantS, style)
			assert.Equal(t, tt.wantA, audience)
		})
	}
}

func TestNewJobResponseProjectsResultAndError(t *testing.T) {
	now := time.Now().UTC()
	job := domain.Job{
		ID:           "job-9",
		Status:       domain.JobStatusCompleted,
		Progress:     1.0,
		CurrentStage: "assembly",
		Message:      "Comic generated",
		Result: &domain.JobResult{
			Title:       "T",
			TotalPages:  2,
			TotalPanels: 8,
			Artifacts: map[domain.OutputFormat]domain.Artifact{
				domain.FormatPDF: {Ref: "job-9/comic.pdf", ContentType: "application/pdf", Size: 123},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := NewJobResponse(job)

	assert.Equal(t, "job-9", resp.JobID)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Result)
	artifact := resp.Result.Artifacts["pdf"]
	assert.Equal(t, "/api/v1/download/job-9?format=pdf", artifact.DownloadURL)
	assert.Equal(t, int64(123), artifact.SizeBytes)
	assert.Nil(t, resp.Error)

	failed := domain.Job{
		ID:     "job-10",
		Status: domain.JobStatusFailed,
		Error:  &domain.JobError{Stage: "visual", Kind: domain.ErrKindGeneration, Message: "boom"},
	}
	failedResp := NewJobResponse(failed)
	require.NotNil(t, failedResp.Error)
	assert.Equal(t, "visual", failedResp.Error.Stage)
	assert.Equal(t, "generation", failedResp.Error.Kind)
	assert.Nil(t, failedResp.Result)
}
