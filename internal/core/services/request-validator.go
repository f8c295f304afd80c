package services

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"prediction-service/internal/core/domain"
)

// RequestValidator turns an untyped payload into a FeatureVector for one
// schema. It holds no mutable state.
type RequestValidator struct {
	schema domain.FeatureSchema
	strict bool
}

// NewRequestValidator builds a validator for schema. With strict set, fields
// outside the schema are rejected instead of ignored.
func NewRequestValidator(schema domain.FeatureSchema, strict bool) *RequestValidator {
	s := make(domain.FeatureSchema, len(schema))
	copy(s, schema)
	return &RequestValidator{schema: s, strict: strict}
}

// Validate checks every schema field and reports all offending fields at once.
func (v *RequestValidator) Validate(raw map[string]any) (domain.FeatureVector, error) {
	values := make([]float64, len(v.schema))
	var failures []domain.FieldError

	for i, name := range v.schema {
		val, ok := raw[name]
		if !ok {
			failures = append(failures, domain.FieldError{Field: name, Reason: domain.ReasonMissing})
			continue
		}
		f, reason := toFloat(val)
		if reason != "" {
			failures = append(failures, domain.FieldError{Field: name, Reason: reason})
			continue
		}
		values[i] = f
	}

	if v.strict {
		var extra []string
		for name := range raw {
			if v.schema.Index(name) < 0 {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			failures = append(failures, domain.FieldError{Field: name, Reason: domain.ReasonUnexpected})
		}
	}

	if len(failures) > 0 {
		return domain.FeatureVector{}, &domain.ValidationError{Fields: failures}
	}
	return domain.NewFeatureVector(v.schema, values), nil
}

// toFloat returns the value or the reason it was rejected.
func toFloat(val any) (float64, string) {
	var f float64
	switch x := val.(type) {
	case nil:
		return 0, domain.ReasonNull
	case bool:
		return 0, domain.ReasonNotNumeric
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		return parseDecimal(string(x))
	case string:
		return parseDecimal(x)
	default:
		return 0, domain.ReasonNotNumeric
	}
	return finite(f)
}

// parseDecimal accepts decimal notation only; hex floats are rejected.
func parseDecimal(s string) (float64, string) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, domain.ReasonNotNumeric
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ErrRange: overflow comes back as ±Inf, underflow as ±0.
		var ne *strconv.NumError
		if !errors.As(err, &ne) || ne.Err != strconv.ErrRange {
			return 0, domain.ReasonNotNumeric
		}
	}
	return finite(f)
}

func finite(f float64) (float64, string) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.ReasonNotFinite
	}
	return f, ""
}
