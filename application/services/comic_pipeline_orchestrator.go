package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/domain"
)

const (
	StageIngest   = "ingest"
	StageStory    = "story"
	StageScript   = "script"
	StageText     = "text"
	StageVisual   = "visual"
	StageVideo    = "video"
	StageAssembly = "assembly"
)

type comicPipelineOrchestrator struct {
	logger     outbound.LoggerPort
	jobs       outbound.JobRepositoryPort
	ingestor   inbound.DocumentIngestorPort
	storyGen   inbound.StoryGeneratorPort
	scriptGen  inbound.ScriptGeneratorPort
	textGen    inbound.PanelTextGeneratorPort
	artworkGen inbound.PanelArtworkGeneratorPort
	videoGen   inbound.PanelVideoGeneratorPort
	assembler  inbound.ComicAssemblerPort
	weights    config.StageWeights
}

func NewComicPipelineOrchestrator(logger outbound.LoggerPort, jobs outbound.JobRepositoryPort,
	ingestor inbound.DocumentIngestorPort, storyGen inbound.StoryGeneratorPort,
	scriptGen inbound.ScriptGeneratorPort, textGen inbound.PanelTextGeneratorPort,
	artworkGen inbound.PanelArtworkGeneratorPort, videoGen inbound.PanelVideoGeneratorPort,
	assembler inbound.ComicAssemblerPort, weights config.StageWeights) inbound.ComicPipelineOrchestrator {
	return &comicPipelineOrchestrator{
		logger:     logger,
		jobs:       jobs,
		ingestor:   ingestor,
		storyGen:   storyGen,
		scriptGen:  scriptGen,
		textGen:    textGen,
		artworkGen: artworkGen,
		videoGen:   videoGen,
		assembler:  assembler,
		weights:    weights,
	}
}

// Run executes the fixed stage order for one job. A stage failure marks the
// job failed and stops the pipeline; a missing registry entry means the job
// was deleted mid-flight and the run aborts silently.
func (o *comicPipelineOrchestrator) Run(ctx context.Context, jobID string) {
	job, err := o.jobs.Get(ctx, jobID)
	if err != nil {
		o.logger.ErrorWithFields(err, "orchestrator: job lookup failed", map[string]interface{}{
			"job_id": jobID,
		})
		return
	}
	if job.Status != domain.JobStatusQueued {
		o.logger.WarnWithFields("orchestrator: job not in queued state, skipping", map[string]interface{}{
			"job_id": jobID,
			"status": string(job.Status),
		})
		return
	}
	input := job.Input

	if !o.enter(ctx, jobID, StageIngest, "Extracting source text") {
		return
	}
	doc, err := o.ingestor.Ingest(ctx, input)
	if err != nil {
		o.fail(ctx, jobID, StageIngest, err)
		return
	}
	if !o.advance(ctx, jobID, StageIngest, o.weights.Ingest,
		fmt.Sprintf("Source ready: %d words", doc.WordCount)) {
		return
	}

	if !o.enter(ctx, jobID, StageStory, "Generating story") {
		return
	}
	story, err := o.storyGen.Generate(ctx, doc, input)
	if err != nil {
		o.fail(ctx, jobID, StageStory, err)
		return
	}
	if !o.advance(ctx, jobID, StageStory, o.weights.Story,
		fmt.Sprintf("Story ready: %d chapters", len(story.Chapters))) {
		return
	}

	if !o.enter(ctx, jobID, StageScript, "Writing panel script") {
		return
	}
	script, err := o.scriptGen.Generate(ctx, story, input)
	if err != nil {
		o.fail(ctx, jobID, StageScript, err)
		return
	}
	if !o.advance(ctx, jobID, StageScript, o.weights.Script,
		fmt.Sprintf("Script ready: %d panels", len(script.Panels))) {
		return
	}

	if !o.enter(ctx, jobID, StageText, "Writing captions and dialogue") {
		return
	}
	texts, err := o.textGen.Generate(ctx, script, input)
	if err != nil {
		o.fail(ctx, jobID, StageText, err)
		return
	}
	if !o.advance(ctx, jobID, StageText, o.weights.Text, "Captions and dialogue ready") {
		return
	}

	if !o.enter(ctx, jobID, StageVisual,
		fmt.Sprintf("Creating artwork for %d panels", len(script.Panels))) {
		return
	}
	artworks, err := o.artworkGen.Generate(ctx, script, input)
	if err != nil {
		o.fail(ctx, jobID, StageVisual, err)
		return
	}
	if !o.advance(ctx, jobID, StageVisual, o.weights.Visual, "Artwork ready") {
		return
	}

	var clips []domain.VideoClip
	if input.WantsVideo() {
		if !o.enter(ctx, jobID, StageVideo, "Animating panels") {
			return
		}
		clips, err = o.videoGen.Generate(ctx, script, artworks, input)
		if err != nil {
			o.fail(ctx, jobID, StageVideo, err)
			return
		}
		if !o.advance(ctx, jobID, StageVideo, o.weights.Video,
			fmt.Sprintf("Animated %d clips", len(clips))) {
			return
		}
	}

	if !o.enter(ctx, jobID, StageAssembly, "Assembling output formats") {
		return
	}
	result, err := o.assembler.Assemble(ctx, inbound.AssembleComicParams{
		JobID:    jobID,
		Input:    input,
		Script:   script,
		Texts:    texts,
		Artworks: artworks,
		Clips:    clips,
	})
	if err != nil {
		o.fail(ctx, jobID, StageAssembly, err)
		return
	}

	_, err = o.jobs.Update(ctx, jobID, func(j *domain.Job) {
		j.Status = domain.JobStatusCompleted
		j.Progress = o.weights.Assembly
		j.CurrentStage = StageAssembly
		j.Message = "Comic generated"
		j.Result = result
	})
	if err != nil {
		o.logAbandoned(jobID, StageAssembly, err)
		return
	}
	o.logger.InfoWithFields("orchestrator: job completed", map[string]interface{}{
		"job_id": jobID,
		"panels": result.TotalPanels,
	})
}

// enter marks the stage in flight. It returns false when the job vanished,
// which aborts the run.
func (o *comicPipelineOrchestrator) enter(ctx context.Context, jobID, stage, message string) bool {
	_, err := o.jobs.Update(ctx, jobID, func(j *domain.Job) {
		j.Status = domain.JobStatusProcessing
		j.CurrentStage = stage
		j.Message = message
	})
	if err != nil {
		o.logAbandoned(jobID, stage, err)
		return false
	}
	return true
}

func (o *comicPipelineOrchestrator) advance(ctx context.Context, jobID, stage string, progress float64, message string) bool {
	_, err := o.jobs.Update(ctx, jobID, func(j *domain.Job) {
		if progress > j.Progress {
			j.Progress = progress
		}
		j.CurrentStage = stage
		j.Message = message
	})
	if err != nil {
		o.logAbandoned(jobID, stage, err)
		return false
	}
	return true
}

func (o *comicPipelineOrchestrator) fail(ctx context.Context, jobID, stage string, cause error) {
	kind := domain.KindOf(cause)
	_, err := o.jobs.Update(ctx, jobID, func(j *domain.Job) {
		j.Status = domain.JobStatusFailed
		j.CurrentStage = stage
		j.Message = fmt.Sprintf("Stage %s failed", stage)
		j.Error = &domain.JobError{
			Stage:   stage,
			Kind:    kind,
			Message: cause.Error(),
		}
	})
	if err != nil {
		o.logAbandoned(jobID, stage, err)
		return
	}
	o.logger.ErrorWithFields(cause, "orchestrator: stage failed", map[string]interface{}{
		"job_id": jobID,
		"stage":  stage,
		"kind":   string(kind),
	})
}

func (o *comicPipelineOrchestrator) logAbandoned(jobID, stage string, err error) {
	if errors.Is(err, domain.ErrJobNotFound) {
		o.logger.WarnWithFields("orchestrator: job deleted mid-run, aborting", map[string]interface{}{
			"job_id": jobID,
			"stage":  stage,
		})
		return
	}
	o.logger.ErrorWithFields(err, "orchestrator: registry update failed", map[string]interface{}{
		"job_id": jobID,
		"stage":  stage,
	})
}
