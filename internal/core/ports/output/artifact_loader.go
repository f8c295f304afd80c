package ports

import (
	"context"

	"prediction-service/internal/core/domain"
)

// ArtifactLoader reads a persisted model artifact. Implementations never
// write to the source.
type ArtifactLoader interface {
	Load(ctx context.Context, path string) (*domain.ModelArtifact, error)
}
