package handlers

import (
	"errors"
	"net/http"

	"prediction-service/internal/adapters/primary/http/dto"
	"prediction-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	// Client faults
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ToValidationErrorResponse(validationErr))

	case errors.Is(err, domain.ErrInvalidBody):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidBody.Error()})

	// Not ready yet
	case errors.Is(err, domain.ErrModelNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	// Server faults
	case errors.Is(err, domain.ErrInference):
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrInference.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
