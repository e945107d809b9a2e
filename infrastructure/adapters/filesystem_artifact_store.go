package adapters

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type filesystemArtifactStore struct {
	logger  outbound.LoggerPort
	baseDir string
}

// NewFilesystemArtifactStore writes artifacts under baseDir/jobID/name and
// hands back "jobID/name" refs. Refs are validated on load so a crafted ref
// can never escape the base directory.
func NewFilesystemArtifactStore(baseDir string, logger outbound.LoggerPort) (outbound.ArtifactStorePort, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &filesystemArtifactStore{
		logger:  logger,
		baseDir: baseDir,
	}, nil
}

func (s *filesystemArtifactStore) Save(_ context.Context, jobID, name, contentType string, data []byte) (string, error) {
	ref := jobID + "/" + name
	path, err := s.refPath(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create job directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	s.logger.DebugWithFields("artifact written", map[string]interface{}{
		"ref":          ref,
		"content_type": contentType,
		"bytes":        len(data),
	})
	return ref, nil
}

func (s *filesystemArtifactStore) Load(_ context.Context, ref string) ([]byte, string, error) {
	path, err := s.refPath(ref)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", domain.ErrArtifactNotFound
		}
		return nil, "", fmt.Errorf("read artifact: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

func (s *filesystemArtifactStore) DeleteAll(_ context.Context, jobID string) error {
	if jobID == "" || strings.ContainsAny(jobID, "/\\") {
		return fmt.Errorf("invalid job id %q", jobID)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, jobID))
}

// refPath resolves a ref inside the base directory, rejecting anything that
// would traverse out of it.
func (s *filesystemArtifactStore) refPath(ref string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(ref))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid artifact ref %q", ref)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
