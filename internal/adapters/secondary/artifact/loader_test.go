package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-service/internal/core/domain"
)

const (
	irisKNNPath  = "../../../../models/iris.yaml"
	irisTreePath = "../../../../models/iris-tree.yaml"
)

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileLoader_IrisKNN(t *testing.T) {
	a, err := NewFileLoader(0).Load(context.Background(), irisKNNPath)
	require.NoError(t, err)

	assert.Equal(t, "iris-knn", a.Name)
	assert.Equal(t, domain.ModelKindKNN, a.Kind)
	assert.Equal(t, domain.FeatureSchema{"sepal_length", "sepal_width", "petal_length", "petal_width"}, a.Features)
	assert.Equal(t, []domain.Label{"iris-setosa", "iris-versicolor", "iris-virginica"}, a.Labels)

	tests := []struct {
		name     string
		features []float64
		want     domain.Label
	}{
		{name: "training row", features: []float64{5.1, 3.5, 1.4, 0.2}, want: "iris-setosa"},
		{name: "small flower", features: []float64{1, 2, 1, 0.5}, want: "iris-setosa"},
		{name: "versicolor row", features: []float64{7.0, 3.2, 4.7, 1.4}, want: "iris-versicolor"},
		{name: "virginica row", features: []float64{6.3, 3.3, 6.0, 2.5}, want: "iris-virginica"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := a.Classifier.Predict(tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scores.Label)
			require.NotNil(t, scores.Confidence)
			assert.Equal(t, 1.0, *scores.Confidence)
		})
	}
}

func TestFileLoader_IrisTree(t *testing.T) {
	a, err := NewFileLoader(0).Load(context.Background(), irisTreePath)
	require.NoError(t, err)
	assert.Equal(t, domain.ModelKindDecisionTree, a.Kind)

	scores, err := a.Classifier.Predict([]float64{5.1, 3.5, 1.4, 0.2})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("iris-setosa"), scores.Label)

	scores, err = a.Classifier.Predict([]float64{6.0, 2.9, 4.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("iris-versicolor"), scores.Label)
	require.NotNil(t, scores.Confidence)
	assert.InDelta(t, 0.9074, *scores.Confidence, 1e-9)
	assert.Len(t, scores.Probabilities, 3)

	scores, err = a.Classifier.Predict([]float64{6.5, 3.0, 5.5, 2.0})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("iris-virginica"), scores.Label)

	_, err = a.Classifier.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, domain.ErrFeatureArity)
}

func TestFileLoader_JSONArtifact(t *testing.T) {
	path := writeArtifact(t, `{"format_version": 1, "kind": "knn", "features": ["x"], "labels": ["low", "high"], "knn": {"k": 1, "points": [{"features": [0], "label": "low"}, {"features": [10], "label": "high"}]}}`)

	a, err := NewFileLoader(0).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, a.Name)

	scores, err := a.Classifier.Predict([]float64{8})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("high"), scores.Label)
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFileLoader(0).Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))

	var loadErr *domain.ModelLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoader_TooLarge(t *testing.T) {
	_, err := NewFileLoader(64).Load(context.Background(), irisKNNPath)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}

func TestFileLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLoader(0).Load(ctx, irisKNNPath)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.ErrorIs(t, err, context.Canceled)
}

const knnHeader = `format_version: 1
kind: knn
features: [a, b]
labels: [red, blue]
`

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty", body: "  \n", wantErr: domain.ErrInvalidArtifact},
		{name: "corrupt", body: "format_version: [1", wantErr: domain.ErrInvalidArtifact},
		{name: "wrong version", body: "format_version: 2\nkind: knn\n", wantErr: domain.ErrInvalidArtifact},
		{name: "missing version", body: "kind: knn\n", wantErr: domain.ErrInvalidArtifact},
		{name: "unknown kind", body: "format_version: 1\nkind: svm\nfeatures: [a]\nlabels: [x]\n", wantErr: domain.ErrUnknownModelKind},
		{name: "unknown field", body: knnHeader + "weights: [1]\n", wantErr: domain.ErrInvalidArtifact},
		{name: "no features", body: "format_version: 1\nkind: knn\nlabels: [x]\n", wantErr: domain.ErrInvalidArtifact},
		{name: "no labels", body: "format_version: 1\nkind: knn\nfeatures: [a]\n", wantErr: domain.ErrInvalidArtifact},
		{name: "duplicate feature", body: "format_version: 1\nkind: knn\nfeatures: [a, a]\nlabels: [x]\n", wantErr: domain.ErrInvalidArtifact},
		{name: "duplicate label", body: "format_version: 1\nkind: knn\nfeatures: [a]\nlabels: [x, x]\n", wantErr: domain.ErrInvalidArtifact},
		{name: "knn section missing", body: knnHeader, wantErr: domain.ErrInvalidArtifact},
		{name: "knn no points", body: knnHeader + "knn: {k: 1, points: []}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "k too large", body: knnHeader + "knn:\n  k: 3\n  points:\n    - {features: [1, 2], label: red}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "negative k", body: knnHeader + "knn:\n  k: -1\n  points:\n    - {features: [1, 2], label: red}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "unknown metric", body: knnHeader + "knn:\n  metric: cosine\n  points:\n    - {features: [1, 2], label: red}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "point arity", body: knnHeader + "knn:\n  points:\n    - {features: [1], label: red}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "point not finite", body: knnHeader + "knn:\n  points:\n    - {features: [.nan, 2], label: red}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "point label not in set", body: knnHeader + "knn:\n  points:\n    - {features: [1, 2], label: green}\n", wantErr: domain.ErrInvalidArtifact},
		{name: "knn with tree section", body: knnHeader + "knn:\n  points:\n    - {features: [1, 2], label: red}\ntree: {nodes: []}\n", wantErr: domain.ErrInvalidArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode([]byte(tt.body))
			assert.Nil(t, a)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileLoader_WrapsDecodeErrors(t *testing.T) {
	path := writeArtifact(t, "format_version: 1\nkind: knn\nfeatures: [a]\nlabels: [x]\n")

	_, err := NewFileLoader(0).Load(context.Background(), path)

	var loadErr *domain.ModelLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}
