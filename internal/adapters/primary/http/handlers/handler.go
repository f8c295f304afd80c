package handlers

import (
	ports "prediction-service/internal/core/ports/output"
	"prediction-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes caps prediction request bodies.
const DefaultMaxBodyBytes = 1 << 20

type Handler struct {
	store        *services.ModelStore
	gate         *services.Gate
	metrics      ports.MetricsRecorder
	maxBodyBytes int64
}

// New serves metadata from store and predictions through gate.
func New(store *services.ModelStore, gate *services.Gate, metrics ports.MetricsRecorder) *Handler {
	return &Handler{
		store:        store,
		gate:         gate,
		metrics:      metrics,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Home)

	// Prediction
	r.POST("/predict", h.Predict)

	// Model metadata
	r.GET("/model", h.GetModel)

	// Liveness / readiness
	r.GET("/healthz", h.Health)
	r.GET("/health", h.Health)
}
