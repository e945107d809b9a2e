package services

import (
	"context"
	"fmt"

	"github.com/AnnNaserNabil/ComicX/application/ports/inbound"
	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type comicAssembler struct {
	logger   outbound.LoggerPort
	store    outbound.ArtifactStorePort
	encoders map[domain.OutputFormat]outbound.ComicEncoderPort
}

func NewComicAssembler(logger outbound.LoggerPort, store outbound.ArtifactStorePort,
	encoders ...outbound.ComicEncoderPort) inbound.ComicAssemblerPort {
	byFormat := make(map[domain.OutputFormat]outbound.ComicEncoderPort, len(encoders))
	for _, enc := range encoders {
		byFormat[enc.Format()] = enc
	}
	return &comicAssembler{
		logger:   logger,
		store:    store,
		encoders: byFormat,
	}
}

// Assemble validates that every panel has its artwork and text, then encodes
// and stores one artifact per requested format. No format is reported unless
// it was fully produced.
func (a *comicAssembler) Assemble(ctx context.Context, params inbound.AssembleComicParams) (*domain.JobResult, error) {
	script := params.Script
	if script == nil || len(script.Panels) == 0 {
		return nil, domain.NewAssemblyError("no script to assemble")
	}
	if err := a.checkInputs(params); err != nil {
		return nil, err
	}

	encodeReq := outbound.EncodeComicRequest{
		Title:    script.Title,
		Script:   *script,
		Texts:    params.Texts,
		Artworks: params.Artworks,
		Clips:    params.Clips,
	}

	artifacts := make(map[domain.OutputFormat]domain.Artifact, len(params.Input.OutputFormats))
	for _, format := range params.Input.OutputFormats {
		encoder, ok := a.encoders[format]
		if !ok {
			return nil, domain.NewAssemblyError("no encoder registered for format %q", format)
		}
		encoded, err := encoder.Encode(ctx, encodeReq)
		if err != nil {
			return nil, domain.NewAssemblyError("encoding %s: %v", format, err)
		}

		name := fmt.Sprintf("comic.%s", encoded.FileExt)
		ref, err := a.store.Save(ctx, params.JobID, name, encoded.ContentType, encoded.Data)
		if err != nil {
			return nil, domain.NewAssemblyError("storing %s artifact: %v", format, err)
		}
		artifacts[format] = domain.Artifact{
			Ref:         ref,
			ContentType: encoded.ContentType,
			Size:        int64(len(encoded.Data)),
		}
		a.logger.DebugWithFields("artifact stored", map[string]interface{}{
			"job_id": params.JobID,
			"format": string(format),
			"bytes":  len(encoded.Data),
		})
	}

	return &domain.JobResult{
		Title:       script.Title,
		TotalPages:  script.TotalPages,
		TotalPanels: len(script.Panels),
		Artifacts:   artifacts,
	}, nil
}

// checkInputs enforces the upstream contract: one artwork and one text entry
// per panel, in ascending panel order, plus one clip per panel when video was
// requested.
func (a *comicAssembler) checkInputs(params inbound.AssembleComicParams) error {
	panels := params.Script.Panels
	if len(params.Artworks) != len(panels) {
		return domain.NewAssemblyError("artwork missing: %d panels, %d images", len(panels), len(params.Artworks))
	}
	if len(params.Texts) != len(panels) {
		return domain.NewAssemblyError("panel text missing: %d panels, %d entries", len(panels), len(params.Texts))
	}
	for i, p := range panels {
		if params.Artworks[i].PanelNumber != p.PanelNumber {
			return domain.NewAssemblyError("artwork out of order at panel %d", p.PanelNumber)
		}
		if len(params.Artworks[i].ImageData) == 0 {
			return domain.NewAssemblyError("artwork for panel %d has no image data", p.PanelNumber)
		}
		if params.Texts[i].PanelNumber != p.PanelNumber {
			return domain.NewAssemblyError("panel text out of order at panel %d", p.PanelNumber)
		}
	}
	if params.Input.WantsVideo() && len(params.Clips) != len(panels) {
		return domain.NewAssemblyError("video clips missing: %d panels, %d clips", len(panels), len(params.Clips))
	}
	return nil
}
