package ports

import "prediction-service/internal/core/domain"

// PredictionCache memoizes results by exact feature vector. Implementations
// copy results in and out and must be safe for concurrent use.
type PredictionCache interface {
	Get(vec domain.FeatureVector) (*domain.PredictionResult, bool)
	Add(vec domain.FeatureVector, result *domain.PredictionResult)
	Len() int
}
