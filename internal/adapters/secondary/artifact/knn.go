package artifact

import (
	"fmt"
	"math"
	"sort"

	"prediction-service/internal/core/domain"
)

type knnSpec struct {
	K      int        `yaml:"k"`
	Metric string     `yaml:"metric"`
	Points []knnPoint `yaml:"points"`
}

type knnPoint struct {
	Features []float64 `yaml:"features"`
	Label    string    `yaml:"label"`
}

type distanceFunc func(a, b []float64) float64

var metrics = map[string]distanceFunc{
	"euclidean": euclidean,
	"manhattan": manhattan,
}

// knnClassifier is a k-nearest-neighbours model with uniform vote weights.
// Fields are set once in decodeKNN.
type knnClassifier struct {
	k        int
	distance distanceFunc
	points   [][]float64
	labels   []int
	classes  []domain.Label
}

func decodeKNN(doc *document, h *header) (domain.Classifier, error) {
	spec := doc.KNN
	if spec == nil {
		return nil, fmt.Errorf("%w: knn section missing", domain.ErrInvalidArtifact)
	}
	if doc.Tree != nil {
		return nil, fmt.Errorf("%w: knn artifact carries a tree section", domain.ErrInvalidArtifact)
	}
	if len(spec.Points) == 0 {
		return nil, fmt.Errorf("%w: knn has no points", domain.ErrInvalidArtifact)
	}

	k := spec.K
	if k == 0 {
		k = 1
	}
	if k < 0 || k > len(spec.Points) {
		return nil, fmt.Errorf("%w: k=%d outside [1,%d]", domain.ErrInvalidArtifact, spec.K, len(spec.Points))
	}

	metric := spec.Metric
	if metric == "" {
		metric = "euclidean"
	}
	dist, ok := metrics[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidArtifact, spec.Metric)
	}

	c := &knnClassifier{
		k:        k,
		distance: dist,
		points:   make([][]float64, 0, len(spec.Points)),
		labels:   make([]int, 0, len(spec.Points)),
		classes:  h.labels,
	}
	for i, p := range spec.Points {
		if len(p.Features) != h.features.Len() {
			return nil, fmt.Errorf("%w: point %d has %d features, want %d", domain.ErrInvalidArtifact, i, len(p.Features), h.features.Len())
		}
		for _, v := range p.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: point %d is not finite", domain.ErrInvalidArtifact, i)
			}
		}
		idx, ok := h.index[domain.Label(p.Label)]
		if !ok {
			return nil, fmt.Errorf("%w: point %d label %q not in label set", domain.ErrInvalidArtifact, i, p.Label)
		}
		c.points = append(c.points, append([]float64(nil), p.Features...))
		c.labels = append(c.labels, idx)
	}
	return c, nil
}

func (c *knnClassifier) Predict(features []float64) (domain.Scores, error) {
	if len(c.points) == 0 || len(features) != len(c.points[0]) {
		return domain.Scores{}, domain.ErrFeatureArity
	}

	type neighbour struct {
		dist float64
		idx  int
	}
	nn := make([]neighbour, len(c.points))
	for i, p := range c.points {
		nn[i] = neighbour{dist: c.distance(features, p), idx: i}
	}
	// Equal distances keep training order.
	sort.SliceStable(nn, func(i, j int) bool { return nn[i].dist < nn[j].dist })

	votes := make([]int, len(c.classes))
	for _, n := range nn[:c.k] {
		votes[c.labels[n.idx]]++
	}

	// Ties go to the label listed first in the artifact.
	best := 0
	for i, v := range votes {
		if v > votes[best] {
			best = i
		}
	}

	probs := make([]float64, len(votes))
	for i, v := range votes {
		probs[i] = float64(v) / float64(c.k)
	}
	confidence := probs[best]

	return domain.Scores{
		Label:         c.classes[best],
		Confidence:    &confidence,
		Probabilities: probs,
	}, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func manhattan(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}
