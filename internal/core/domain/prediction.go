package domain

// Label is one class of the artifact's fixed label space.
type Label string

// Scores is the raw classifier output for one vector. Probabilities, when
// present, is indexed like the artifact's label set.
type Scores struct {
	Label         Label
	Confidence    *float64
	Probabilities []float64
}

// PredictionResult is returned to the caller and then discarded.
type PredictionResult struct {
	Label         Label
	Confidence    *float64
	Probabilities map[Label]float64
	CacheHit      bool
}

// Clone returns a deep copy of r.
func (r *PredictionResult) Clone() *PredictionResult {
	out := *r
	if r.Confidence != nil {
		c := *r.Confidence
		out.Confidence = &c
	}
	if r.Probabilities != nil {
		out.Probabilities = make(map[Label]float64, len(r.Probabilities))
		for l, p := range r.Probabilities {
			out.Probabilities[l] = p
		}
	}
	return &out
}
