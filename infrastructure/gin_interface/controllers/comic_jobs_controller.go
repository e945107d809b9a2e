package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/domain"
	"github.com/AnnNaserNabil/ComicX/infrastructure/gin_interface/dto"
	"github.com/AnnNaserNabil/ComicX/middleware"
)

const (
	maxUploadBytes      = 10 << 20
	statusStreamTick    = 500 * time.Millisecond
	statusStreamMaxIdle = 30 * time.Minute
)

type ComicJobsController interface {
	GenerateComic(c *gin.Context)
	GetStatus(c *gin.Context)
	StreamStatus(c *gin.Context)
	DownloadComic(c *gin.Context)
	ListJobs(c *gin.Context)
	DeleteJob(c *gin.Context)
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

// ProviderStatus reports which downstream providers carry credentials, for
// the health endpoint.
type ProviderStatus struct {
	OpenRouterConfigured bool
	ModelsLabConfigured  bool
}

type comicJobsController struct {
	logger     outbound.LoggerPort
	dispatcher outbound.TaskDispatcher
	jobs       outbound.JobRepositoryPort
	store      outbound.ArtifactStorePort
	pipeline   inbound.ComicPipelineOrchestrator
	serverCfg  *config.ServerConfig
	providers  ProviderStatus
}

func NewComicJobsController(
	logger outbound.LoggerPort,
	dispatcher outbound.TaskDispatcher,
	jobs outbound.JobRepositoryPort,
	store outbound.ArtifactStorePort,
	pipeline inbound.ComicPipelineOrchestrator,
	serverCfg *config.ServerConfig,
	providers ProviderStatus,
) ComicJobsController {
	return &comicJobsController{
		logger:     logger,
		dispatcher: dispatcher,
		jobs:       jobs,
		store:      store,
		pipeline:   pipeline,
		serverCfg:  serverCfg,
		providers:  providers,
	}
}

// GenerateComic validates the multipart request, registers a queued job and
// hands the pipeline run to the worker pool. Nothing is persisted when
// validation fails.
func (s *comicJobsController) GenerateComic(c *gin.Context) {
	var req dto.GenerateComicRequest
	if err := c.ShouldBind(&req); err != nil {
		s.abortWithMessage(c, http.StatusBadRequest, "malformed form data")
		return
	}

	document, documentName, err := s.readUpload(c)
	if err != nil {
		s.abortWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Text) == "" && len(document) == 0 {
		s.abortWithMessage(c, http.StatusBadRequest, "either text or a document file is required")
		return
	}

	formats, err := req.ParseOutputFormats()
	if err != nil {
		s.abortWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	artStyle, err := req.ParseArtStyle()
	if err != nil {
		s.abortWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	targetAudience, err := req.ParseTargetAudience()
	if err != nil {
		s.abortWithMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	targetPages := req.TargetPages
	if targetPages == 0 {
		targetPages = s.serverCfg.DefaultTargetPages
	}
	if targetPages < s.serverCfg.MinTargetPages || targetPages > s.serverCfg.MaxTargetPages {
		s.abortWithMessage(c, http.StatusBadRequest,
			fmt.Sprintf("target_pages must be between %d and %d", s.serverCfg.MinTargetPages, s.serverCfg.MaxTargetPages))
		return
	}

	job, err := s.jobs.Create(c, domain.GenerationInput{
		Text:           req.Text,
		Document:       document,
		DocumentName:   documentName,
		Title:          strings.TrimSpace(req.Title),
		ArtStyle:       artStyle,
		TargetPages:    targetPages,
		TargetAudience: targetAudience,
		OutputFormats:  formats,
	})
	if err != nil {
		s.logger.Error(err, "failed to create job")
		s.abortWithMessage(c, http.StatusInternalServerError, "failed to create job")
		return
	}

	jobID := job.ID
	if err := s.dispatcher.Submit(func() {
		s.pipeline.Run(context.Background(), jobID)
	}); err != nil {
		s.logger.Error(err, "failed to schedule pipeline run")
		if delErr := s.jobs.Delete(c, jobID); delErr != nil {
			s.logger.Error(delErr, "failed to remove unscheduled job")
		}
		s.abortWithMessage(c, http.StatusServiceUnavailable, "server is at capacity, try again later")
		return
	}

	c.JSON(http.StatusAccepted, dto.NewJobResponse(job))
}

func (s *comicJobsController) GetStatus(c *gin.Context) {
	job, err := s.jobs.Get(c, c.Param("job_id"))
	if err != nil {
		s.abortNotFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewJobResponse(job))
}

// StreamStatus pushes job snapshots over SSE until the job reaches a
// terminal state, the job disappears or the client goes away.
func (s *comicJobsController) StreamStatus(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := s.jobs.Get(c, jobID); err != nil {
		s.abortNotFoundOrInternal(c, err)
		return
	}

	clientGone := c.Request.Context().Done()
	ticker := time.NewTicker(statusStreamTick)
	defer ticker.Stop()
	deadline := time.NewTimer(statusStreamMaxIdle)
	defer deadline.Stop()

	var lastUpdate time.Time
	for {
		select {
		case <-clientGone:
			return
		case <-deadline.C:
			return
		case <-ticker.C:
			job, err := s.jobs.Get(c.Request.Context(), jobID)
			if err != nil {
				return
			}
			if !job.UpdatedAt.After(lastUpdate) && !job.Terminal() {
				continue
			}
			lastUpdate = job.UpdatedAt
			if !s.writeEvent(c, dto.NewJobResponse(job)) {
				return
			}
			if job.Terminal() {
				return
			}
		}
	}
}

func (s *comicJobsController) writeEvent(c *gin.Context, payload interface{}) bool {
	encoded, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to encode status event")
		return false
	}
	if _, err := c.Writer.WriteString("data: " + string(encoded) + "\n\n"); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}

// DownloadComic serves one produced artifact. The format must have been
// requested at submission and the job must have completed.
func (s *comicJobsController) DownloadComic(c *gin.Context) {
	job, err := s.jobs.Get(c, c.Param("job_id"))
	if err != nil {
		s.abortNotFoundOrInternal(c, err)
		return
	}

	if job.Status != domain.JobStatusCompleted || job.Result == nil {
		s.abortWithMessage(c, http.StatusConflict,
			fmt.Sprintf("job is %s, artifacts are available once it completes", job.Status))
		return
	}

	format := domain.OutputFormat(strings.ToLower(c.DefaultQuery("format", string(domain.FormatPDF))))
	artifact, ok := job.Result.Artifacts[format]
	if !ok {
		s.abortWithMessage(c, http.StatusNotFound,
			fmt.Sprintf("no %q artifact for this job", format))
		return
	}

	data, contentType, err := s.store.Load(c, artifact.Ref)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			s.abortWithMessage(c, http.StatusNotFound, "artifact no longer available")
			return
		}
		s.logger.ErrorWithFields(err, "failed to load artifact", map[string]interface{}{
			"job_id": job.ID,
			"ref":    artifact.Ref,
		})
		s.abortWithMessage(c, http.StatusInternalServerError, "failed to load artifact")
		return
	}
	if contentType == "" {
		contentType = artifact.ContentType
	}

	filename := fmt.Sprintf("%s_%s", job.ID, path.Base(artifact.Ref))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (s *comicJobsController) ListJobs(c *gin.Context) {
	jobs, err := s.jobs.List(c)
	if err != nil {
		s.logger.Error(err, "failed to list jobs")
		s.abortWithMessage(c, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	resp := dto.JobListResponse{Jobs: make([]dto.JobResponse, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, dto.NewJobResponse(job))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteJob removes the job record and its stored artifacts. A run still in
// flight notices the missing record on its next registry update and aborts.
func (s *comicJobsController) DeleteJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if err := s.jobs.Delete(c, jobID); err != nil {
		s.abortNotFoundOrInternal(c, err)
		return
	}
	if err := s.store.DeleteAll(c, jobID); err != nil {
		s.logger.ErrorWithFields(err, "failed to delete artifacts", map[string]interface{}{
			"job_id": jobID,
		})
	}
	c.Status(http.StatusNoContent)
}

// Health reports liveness plus the configuration state of each downstream
// provider.
func (s *comicJobsController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"services": gin.H{
			"openrouter": providerLabel(s.providers.OpenRouterConfigured),
			"modelslab":  providerLabel(s.providers.ModelsLabConfigured),
		},
	})
}

func providerLabel(configured bool) string {
	if configured {
		return "configured"
	}
	return "not_configured"
}

func (s *comicJobsController) RegisterRoutes(g *gin.Engine) {
	api := g.Group("/api/v1")
	api.POST("/generate", s.GenerateComic)
	api.GET("/status/:job_id", s.GetStatus)
	api.GET("/status/:job_id/stream", middleware.SSEHeaders(), s.StreamStatus)
	api.GET("/download/:job_id", s.DownloadComic)
	api.GET("/jobs", s.ListJobs)
	api.DELETE("/jobs/:job_id", s.DeleteJob)
	g.GET("/health", s.Health)
}

func (s *comicJobsController) readUpload(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("invalid file upload: %v", err)
	}
	if fileHeader.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("uploaded file exceeds %d bytes", maxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open uploaded file: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read uploaded file: %v", err)
	}
	if len(data) > maxUploadBytes {
		return nil, "", fmt.Errorf("uploaded file exceeds %d bytes", maxUploadBytes)
	}
	return data, fileHeader.Filename, nil
}

func (s *comicJobsController) abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func (s *comicJobsController) abortNotFoundOrInternal(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrJobNotFound) {
		s.abortWithMessage(c, http.StatusNotFound, "job not found")
		return
	}
	s.logger.Error(err, "job lookup failed")
	s.abortWithMessage(c, http.StatusInternalServerError, "internal error")
}
