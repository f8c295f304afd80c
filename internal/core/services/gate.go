package services

import (
	"sync/atomic"

	"prediction-service/internal/core/domain"
)

// Pipeline is the per-artifact request path: validate, then predict.
type Pipeline struct {
	Validator *RequestValidator
	Predictor *PredictionService
}

// NewPipeline wires a validator and prediction service for one loaded
// artifact.
func NewPipeline(validator *RequestValidator, predictor *PredictionService) *Pipeline {
	return &Pipeline{Validator: validator, Predictor: predictor}
}

// Gate publishes the pipeline to the HTTP layer once the model store has
// finished loading. It opens at most once and never closes.
type Gate struct {
	pipeline atomic.Pointer[Pipeline]
}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) Open(p *Pipeline) error {
	if p == nil || p.Validator == nil || p.Predictor == nil {
		return domain.ErrModelNotReady
	}
	if !g.pipeline.CompareAndSwap(nil, p) {
		return domain.ErrGateAlreadyOpen
	}
	return nil
}

func (g *Gate) Ready() bool {
	return g.pipeline.Load() != nil
}

// Pipeline returns the published pipeline or ErrModelNotReady.
func (g *Gate) Pipeline() (*Pipeline, error) {
	p := g.pipeline.Load()
	if p == nil {
		return nil, domain.ErrModelNotReady
	}
	return p, nil
}
