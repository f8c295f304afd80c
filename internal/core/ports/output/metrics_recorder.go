package ports

import (
	"time"

	"prediction-service/internal/core/domain"
)

// MetricsRecorder defines the contract for serving metrics
type MetricsRecorder interface {
	// Per-request outcomes
	PredictionServed(label domain.Label, cacheHit bool, latency time.Duration)
	ValidationFailed(fields int)
	InferenceFailed()

	// Startup
	ModelLoaded(name string, kind domain.ModelKind)
}
