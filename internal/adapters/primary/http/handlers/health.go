package handlers

import (
	"net/http"

	"prediction-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

// Health reports ok only once the model artifact is loaded and published.
func (h *Handler) Health(c *gin.Context) {
	p, err := h.gate.Pipeline()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Model: p.Predictor.Artifact().Name})
}

func (h *Handler) Home(c *gin.Context) {
	name := "Model"
	if a, err := h.store.Artifact(); err == nil {
		name = a.Name
	}
	c.String(http.StatusOK, "%s prediction API. Send your POST request to /predict", name)
}

// GetModel answers as soon as the store has loaded, even before the gate
// opens.
func (h *Handler) GetModel(c *gin.Context) {
	a, err := h.store.Artifact()
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelResponse(a))
}
