package domain

import (
	"strings"
)

type ModelKind string

const (
	ModelKindKNN          ModelKind = "knn"
	ModelKindDecisionTree ModelKind = "decision_tree"
)

var SupportedKinds = map[ModelKind]bool{
	ModelKindKNN:          true,
	ModelKindDecisionTree: true,
}

func ParseModelKind(kind string) (ModelKind, error) {
	k := ModelKind(strings.ToLower(strings.TrimSpace(kind)))
	if !SupportedKinds[k] {
		return "", ErrUnknownModelKind
	}
	return k, nil
}

// Classifier maps a vector in artifact feature order to scores over the
// artifact label set. Implementations must be safe for concurrent use and
// must not mutate themselves after construction.
type Classifier interface {
	Predict(features []float64) (Scores, error)
}

// ModelArtifact is the loaded, immutable model. It is created once by the
// model store and shared by pointer for the lifetime of the process.
type ModelArtifact struct {
	Name       string
	Kind       ModelKind
	Features   FeatureSchema
	Labels     []Label
	Classifier Classifier
}

func (a *ModelArtifact) HasLabel(label Label) bool {
	for _, l := range a.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// LabelNames returns the label set as plain strings in artifact order.
func (a *ModelArtifact) LabelNames() []string {
	out := make([]string, len(a.Labels))
	for i, l := range a.Labels {
		out[i] = string(l)
	}
	return out
}
