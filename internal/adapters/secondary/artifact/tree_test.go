package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-service/internal/core/domain"
)

const treeHeader = `format_version: 1
kind: decision_tree
features: [a, b]
labels: [red, blue]
`

func TestTree_Walk(t *testing.T) {
	a, err := Decode([]byte(treeHeader + `tree:
  nodes:
    - {feature_idx: 1, threshold: 0.5, left_child: 1, right_child: 2}
    - {is_leaf: true, label: red}
    - {is_leaf: true, label: blue, probabilities: [0.25, 0.75]}
`))
	require.NoError(t, err)

	scores, err := a.Classifier.Predict([]float64{100, 0.5})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("red"), scores.Label)
	assert.Nil(t, scores.Confidence)
	assert.Nil(t, scores.Probabilities)

	scores, err = a.Classifier.Predict([]float64{100, 0.51})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("blue"), scores.Label)
	require.NotNil(t, scores.Confidence)
	assert.Equal(t, 0.75, *scores.Confidence)
}

func TestTree_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		nodes string
	}{
		{name: "no nodes", nodes: "  nodes: []\n"},
		{name: "leaf label not in set", nodes: "  nodes:\n    - {is_leaf: true, label: green}\n"},
		{name: "feature out of range", nodes: "  nodes:\n    - {feature_idx: 2, threshold: 1, left_child: 1, right_child: 2}\n    - {is_leaf: true, label: red}\n    - {is_leaf: true, label: blue}\n"},
		{name: "child points backwards", nodes: "  nodes:\n    - {is_leaf: true, label: red}\n    - {feature_idx: 0, threshold: 1, left_child: 0, right_child: 2}\n    - {is_leaf: true, label: blue}\n"},
		{name: "self loop", nodes: "  nodes:\n    - {feature_idx: 0, threshold: 1, left_child: 0, right_child: 1}\n    - {is_leaf: true, label: blue}\n"},
		{name: "child past end", nodes: "  nodes:\n    - {feature_idx: 0, threshold: 1, left_child: 1, right_child: 5}\n    - {is_leaf: true, label: blue}\n"},
		{name: "NaN threshold", nodes: "  nodes:\n    - {feature_idx: 0, threshold: .nan, left_child: 1, right_child: 2}\n    - {is_leaf: true, label: red}\n    - {is_leaf: true, label: blue}\n"},
		{name: "probability count", nodes: "  nodes:\n    - {is_leaf: true, label: red, probabilities: [1]}\n"},
		{name: "probability range", nodes: "  nodes:\n    - {is_leaf: true, label: red, probabilities: [1.5, 0]}\n"},
		{name: "label not most probable", nodes: "  nodes:\n    - {is_leaf: true, label: red, probabilities: [0.3, 0.7]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(treeHeader + "tree:\n" + tt.nodes))
			assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
		})
	}
}

func TestTree_TiedLeafProbabilities(t *testing.T) {
	a, err := Decode([]byte(treeHeader + "tree:\n  nodes:\n    - {is_leaf: true, label: blue, probabilities: [0.5, 0.5]}\n"))
	require.NoError(t, err)

	scores, err := a.Classifier.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, domain.Label("blue"), scores.Label)
	assert.Equal(t, 0.5, *scores.Confidence)
}

func TestTree_SectionMismatch(t *testing.T) {
	_, err := Decode([]byte(treeHeader))
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)

	_, err = Decode([]byte(treeHeader + "tree:\n  nodes:\n    - {is_leaf: true, label: red}\nknn: {points: []}\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}
