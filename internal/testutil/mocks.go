package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"prediction-service/internal/core/domain"
)

// MockArtifactLoader is a mock of ArtifactLoader.
type MockArtifactLoader struct {
	mock.Mock
}

func (m *MockArtifactLoader) Load(ctx context.Context, path string) (*domain.ModelArtifact, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelArtifact), args.Error(1)
}

// MockClassifier is a mock of domain.Classifier.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(features []float64) (domain.Scores, error) {
	args := m.Called(features)
	return args.Get(0).(domain.Scores), args.Error(1)
}

// MockMetricsRecorder is a mock of MetricsRecorder.
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) PredictionServed(label domain.Label, cacheHit bool, latency time.Duration) {
	m.Called(label, cacheHit, latency)
}

func (m *MockMetricsRecorder) ValidationFailed(fields int) {
	m.Called(fields)
}

func (m *MockMetricsRecorder) InferenceFailed() {
	m.Called()
}

func (m *MockMetricsRecorder) ModelLoaded(name string, kind domain.ModelKind) {
	m.Called(name, kind)
}

// NewArtifact builds an in-memory artifact around classifier.
func NewArtifact(classifier domain.Classifier, features []string, labels ...domain.Label) *domain.ModelArtifact {
	return &domain.ModelArtifact{
		Name:       "test-model",
		Kind:       domain.ModelKindKNN,
		Features:   domain.FeatureSchema(features),
		Labels:     labels,
		Classifier: classifier,
	}
}

// IrisFeatures is the feature order of the reference iris artifact.
var IrisFeatures = []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}

// IrisLabels is the label set of the reference iris artifact.
var IrisLabels = []domain.Label{"iris-setosa", "iris-versicolor", "iris-virginica"}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
