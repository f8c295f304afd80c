package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Model Store Errors
// ============================================================================

var (
	ErrModelLoad          = errors.New("model load failed")
	ErrModelAlreadyLoaded = errors.New("model already loaded")
	ErrModelNotReady      = errors.New("model not ready")
	ErrInvalidArtifact    = errors.New("invalid model artifact")
	ErrUnknownModelKind   = errors.New("unknown model kind")
	ErrGateAlreadyOpen    = errors.New("prediction gate already open")
)

// ============================================================================
// Request Errors
// ============================================================================

var (
	ErrValidation  = errors.New("validation failed")
	ErrInvalidBody = errors.New("invalid request body")
)

// ============================================================================
// Inference Errors
// ============================================================================

var (
	ErrInference       = errors.New("inference failed")
	ErrFeatureArity    = errors.New("feature vector arity mismatch")
	ErrLabelOutOfRange = errors.New("classifier returned label outside artifact label set")
)

// ModelLoadError is returned when the artifact at Path cannot be turned into a
// usable model. It is fatal at startup.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

func (e *ModelLoadError) Is(target error) bool { return target == ErrModelLoad }

// Field failure reasons reported to callers.
const (
	ReasonMissing    = "missing"
	ReasonNull       = "null"
	ReasonNotNumeric = "not_numeric"
	ReasonNotFinite  = "not_finite"
	ReasonUnexpected = "unexpected"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every offending field of a rejected payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InferenceError is a server-side fault raised while scoring a valid vector.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInference, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

func (e *InferenceError) Is(target error) bool { return target == ErrInference }
