package domain

// FeatureSchema is the ordered list of feature names a model was trained on.
type FeatureSchema []string

func (s FeatureSchema) Len() int { return len(s) }

// Index returns the position of name in the schema, or -1.
func (s FeatureSchema) Index(name string) int {
	for i, n := range s {
		if n == name {
			return i
		}
	}
	return -1
}

// FeatureVector is a validated, fixed-arity set of measurements in schema
// order. The zero value is empty; build one with NewFeatureVector.
type FeatureVector struct {
	schema FeatureSchema
	values []float64
}

// NewFeatureVector copies values so later changes by the caller are not
// observed by the vector.
func NewFeatureVector(schema FeatureSchema, values []float64) FeatureVector {
	v := make([]float64, len(values))
	copy(v, values)
	return FeatureVector{schema: schema, values: v}
}

func (v FeatureVector) Len() int { return len(v.values) }

func (v FeatureVector) At(i int) float64 { return v.values[i] }

func (v FeatureVector) Schema() FeatureSchema { return v.schema }

// Values returns a copy of the measurements.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Map returns the vector keyed by feature name, for logging.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for i, val := range v.values {
		if i < len(v.schema) {
			out[v.schema[i]] = val
		}
	}
	return out
}
