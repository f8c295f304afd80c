package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"prediction-service/internal/core/domain"
	ports "prediction-service/internal/core/ports/output"
)

// PredictionService scores validated feature vectors against one loaded
// artifact. It is safe for concurrent use; the artifact is never modified.
type PredictionService struct {
	artifact *domain.ModelArtifact
	cache    ports.PredictionCache
	metrics  ports.MetricsRecorder
}

// NewPredictionService wraps artifact. cache and metrics are optional.
func NewPredictionService(
	artifact *domain.ModelArtifact,
	cache ports.PredictionCache,
	metrics ports.MetricsRecorder,
) *PredictionService {
	return &PredictionService{
		artifact: artifact,
		cache:    cache,
		metrics:  metrics,
	}
}

func (s *PredictionService) Artifact() *domain.ModelArtifact {
	return s.artifact
}

// Predict returns the label for vec. Every failure is an *InferenceError.
func (s *PredictionService) Predict(ctx context.Context, vec domain.FeatureVector) (*domain.PredictionResult, error) {
	start := time.Now()

	if vec.Len() != s.artifact.Features.Len() {
		return nil, s.fail(vec, fmt.Errorf("%w: got %d, want %d", domain.ErrFeatureArity, vec.Len(), s.artifact.Features.Len()))
	}

	if s.cache != nil {
		if result, ok := s.cache.Get(vec); ok {
			result.CacheHit = true
			s.served(vec, result, start)
			return result, nil
		}
	}

	scores, err := s.classify(vec)
	if err != nil {
		return nil, s.fail(vec, err)
	}
	if !s.artifact.HasLabel(scores.Label) {
		return nil, s.fail(vec, fmt.Errorf("%w: %q", domain.ErrLabelOutOfRange, scores.Label))
	}

	result := &domain.PredictionResult{
		Label:      scores.Label,
		Confidence: scores.Confidence,
	}
	if len(scores.Probabilities) == len(s.artifact.Labels) {
		result.Probabilities = make(map[domain.Label]float64, len(scores.Probabilities))
		for i, p := range scores.Probabilities {
			result.Probabilities[s.artifact.Labels[i]] = p
		}
	}

	if s.cache != nil {
		s.cache.Add(vec, result)
	}
	s.served(vec, result, start)

	return result, nil
}

// classify isolates classifier panics to the calling request.
func (s *PredictionService) classify(vec domain.FeatureVector) (scores domain.Scores, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return s.artifact.Classifier.Predict(vec.Values())
}

func (s *PredictionService) served(vec domain.FeatureVector, result *domain.PredictionResult, start time.Time) {
	latency := time.Since(start)
	if s.metrics != nil {
		s.metrics.PredictionServed(result.Label, result.CacheHit, latency)
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		fields := log.Fields{
			"model":     s.artifact.Name,
			"features":  vec.Map(),
			"label":     result.Label,
			"cache_hit": result.CacheHit,
			"latency":   latency.String(),
		}
		if result.Confidence != nil {
			fields["confidence"] = *result.Confidence
		}
		if s.cache != nil {
			fields["cache_entries"] = s.cache.Len()
		}
		log.WithFields(fields).Debug("prediction served")
	}
}

func (s *PredictionService) fail(vec domain.FeatureVector, err error) error {
	if s.metrics != nil {
		s.metrics.InferenceFailed()
	}
	log.WithError(err).WithFields(log.Fields{
		"model":    s.artifact.Name,
		"features": vec.Map(),
	}).Error("inference failed")
	return &domain.InferenceError{Err: err}
}
