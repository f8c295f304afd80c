package dto

import (
	"prediction-service/internal/core/domain"
)

// ============================================================================
// Prediction DTOs
// ============================================================================

type PredictionResponse struct {
	Prediction    string             `json:"prediction"`
	Confidence    *float64           `json:"confidence,omitempty"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Model         string             `json:"model"`
}

func ToPredictionResponse(model string, result *domain.PredictionResult) PredictionResponse {
	resp := PredictionResponse{
		Prediction: string(result.Label),
		Confidence: result.Confidence,
		Model:      model,
	}
	if len(result.Probabilities) > 0 {
		resp.Probabilities = make(map[string]float64, len(result.Probabilities))
		for label, p := range result.Probabilities {
			resp.Probabilities[string(label)] = p
		}
	}
	return resp
}

type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields"`
}

func ToValidationErrorResponse(err *domain.ValidationError) ValidationErrorResponse {
	return ValidationErrorResponse{
		Error:  domain.ErrValidation.Error(),
		Fields: err.Fields,
	}
}

// ============================================================================
// Model DTOs
// ============================================================================

type ModelResponse struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
	Labels   []string `json:"labels"`
}

func ToModelResponse(a *domain.ModelArtifact) ModelResponse {
	return ModelResponse{
		Name:     a.Name,
		Kind:     string(a.Kind),
		Features: append([]string(nil), a.Features...),
		Labels:   a.LabelNames(),
	}
}

type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}
