package services

import (
	"context"
	"errors"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"prediction-service/internal/core/domain"
	ports "prediction-service/internal/core/ports/output"
)

// ModelStore loads the classifier artifact exactly once per process.
type ModelStore struct {
	loader  ports.ArtifactLoader
	metrics ports.MetricsRecorder

	started  atomic.Bool
	artifact atomic.Pointer[domain.ModelArtifact]
}

func NewModelStore(loader ports.ArtifactLoader, metrics ports.MetricsRecorder) *ModelStore {
	return &ModelStore{loader: loader, metrics: metrics}
}

// Load reads the artifact at path. Any failure is a *domain.ModelLoadError.
// Calling Load a second time returns ErrModelAlreadyLoaded, whether or not the
// first call succeeded.
func (s *ModelStore) Load(ctx context.Context, path string) (*domain.ModelArtifact, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, domain.ErrModelAlreadyLoaded
	}

	artifact, err := s.loader.Load(ctx, path)
	if err != nil {
		var loadErr *domain.ModelLoadError
		if errors.As(err, &loadErr) {
			return nil, loadErr
		}
		return nil, &domain.ModelLoadError{Path: path, Err: err}
	}
	if artifact == nil || artifact.Classifier == nil {
		return nil, &domain.ModelLoadError{Path: path, Err: domain.ErrInvalidArtifact}
	}

	s.artifact.Store(artifact)
	if s.metrics != nil {
		s.metrics.ModelLoaded(artifact.Name, artifact.Kind)
	}

	log.WithFields(log.Fields{
		"path":     path,
		"model":    artifact.Name,
		"kind":     artifact.Kind,
		"features": []string(artifact.Features),
		"labels":   artifact.LabelNames(),
	}).Info("model artifact loaded")

	return artifact, nil
}

// Artifact returns the loaded artifact, or ErrModelNotReady before a
// successful Load.
func (s *ModelStore) Artifact() (*domain.ModelArtifact, error) {
	a := s.artifact.Load()
	if a == nil {
		return nil, domain.ErrModelNotReady
	}
	return a, nil
}
