package artifact

import (
	"fmt"
	"math"

	"prediction-service/internal/core/domain"
)

type treeSpec struct {
	Nodes []treeNode `yaml:"nodes"`
}

type treeNode struct {
	FeatureIdx    int       `yaml:"feature_idx"`
	Threshold     float64   `yaml:"threshold"`
	LeftChild     int       `yaml:"left_child"`
	RightChild    int       `yaml:"right_child"`
	Label         string    `yaml:"label"`
	IsLeaf        bool      `yaml:"is_leaf"`
	Probabilities []float64 `yaml:"probabilities"`
}

type compiledNode struct {
	featureIdx int
	threshold  float64
	left       int
	right      int
	leaf       bool
	label      int
	probs      []float64
}

// treeClassifier walks a flat node array. Children always sit after their
// parent, so every walk terminates.
type treeClassifier struct {
	nodes    []compiledNode
	classes  []domain.Label
	features int
}

func decodeTree(doc *document, h *header) (domain.Classifier, error) {
	spec := doc.Tree
	if spec == nil {
		return nil, fmt.Errorf("%w: tree section missing", domain.ErrInvalidArtifact)
	}
	if doc.KNN != nil {
		return nil, fmt.Errorf("%w: tree artifact carries a knn section", domain.ErrInvalidArtifact)
	}
	if len(spec.Nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", domain.ErrInvalidArtifact)
	}

	c := &treeClassifier{
		nodes:    make([]compiledNode, len(spec.Nodes)),
		classes:  h.labels,
		features: h.features.Len(),
	}
	for i, n := range spec.Nodes {
		if n.IsLeaf {
			idx, ok := h.index[domain.Label(n.Label)]
			if !ok {
				return nil, fmt.Errorf("%w: node %d label %q not in label set", domain.ErrInvalidArtifact, i, n.Label)
			}
			probs, err := leafProbabilities(i, idx, n.Probabilities, len(h.labels))
			if err != nil {
				return nil, err
			}
			c.nodes[i] = compiledNode{leaf: true, label: idx, probs: probs}
			continue
		}

		if n.FeatureIdx < 0 || n.FeatureIdx >= h.features.Len() {
			return nil, fmt.Errorf("%w: node %d feature_idx %d out of range", domain.ErrInvalidArtifact, i, n.FeatureIdx)
		}
		if math.IsNaN(n.Threshold) {
			return nil, fmt.Errorf("%w: node %d threshold is NaN", domain.ErrInvalidArtifact, i)
		}
		for _, child := range []int{n.LeftChild, n.RightChild} {
			if child <= i || child >= len(spec.Nodes) {
				return nil, fmt.Errorf("%w: node %d child %d out of range", domain.ErrInvalidArtifact, i, child)
			}
		}
		c.nodes[i] = compiledNode{
			featureIdx: n.FeatureIdx,
			threshold:  n.Threshold,
			left:       n.LeftChild,
			right:      n.RightChild,
		}
	}
	return c, nil
}

// leafProbabilities checks a leaf's class distribution. The leaf label must
// be a most probable class.
func leafProbabilities(node, label int, probs []float64, classes int) ([]float64, error) {
	if len(probs) == 0 {
		return nil, nil
	}
	if len(probs) != classes {
		return nil, fmt.Errorf("%w: node %d has %d probabilities, want %d", domain.ErrInvalidArtifact, node, len(probs), classes)
	}
	for _, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: node %d probability %v outside [0,1]", domain.ErrInvalidArtifact, node, p)
		}
	}
	for i, p := range probs {
		if p > probs[label] {
			return nil, fmt.Errorf("%w: node %d label has probability %v but class %d has %v", domain.ErrInvalidArtifact, node, probs[label], i, p)
		}
	}
	return append([]float64(nil), probs...), nil
}

func (c *treeClassifier) Predict(features []float64) (domain.Scores, error) {
	if len(features) != c.features {
		return domain.Scores{}, domain.ErrFeatureArity
	}

	idx := 0
	for {
		node := c.nodes[idx]
		if node.leaf {
			scores := domain.Scores{Label: c.classes[node.label]}
			if node.probs != nil {
				confidence := node.probs[node.label]
				scores.Confidence = &confidence
				scores.Probabilities = append([]float64(nil), node.probs...)
			}
			return scores, nil
		}
		if features[node.featureIdx] <= node.threshold {
			idx = node.left
		} else {
			idx = node.right
		}
	}
}
