package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"prediction-service/internal/adapters/primary/http/dto"
	"prediction-service/internal/adapters/primary/http/middleware"
	"prediction-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Predict runs received -> validated -> predicted -> responded. Validation
// failures stop before any inference work.
func (h *Handler) Predict(c *gin.Context) {
	p, err := h.gate.Pipeline()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	raw, err := h.readPayload(c)
	if err != nil {
		log.WithError(err).Debug("unreadable prediction payload")
		mapDomainError(c, err)
		return
	}

	vec, err := p.Validator.Validate(raw)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && h.metrics != nil {
			h.metrics.ValidationFailed(len(validationErr.Fields))
		}
		mapDomainError(c, err)
		return
	}

	result, err := p.Predictor.Predict(c.Request.Context(), vec)
	if err != nil {
		log.WithError(err).WithField("request_id", middleware.RequestIDFrom(c)).Error("predict failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPredictionResponse(p.Predictor.Artifact().Name, result))
}

// readPayload accepts a JSON object or a URL-encoded / multipart form.
func (h *Handler) readPayload(c *gin.Context) (map[string]any, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	switch contentType := c.ContentType(); {
	case contentType == gin.MIMEPOSTForm, strings.HasPrefix(contentType, gin.MIMEMultipartPOSTForm):
		if contentType == gin.MIMEPOSTForm {
			if err := c.Request.ParseForm(); err != nil {
				return nil, domain.ErrInvalidBody
			}
		} else if err := c.Request.ParseMultipartForm(h.maxBodyBytes); err != nil {
			return nil, domain.ErrInvalidBody
		}
		raw := make(map[string]any, len(c.Request.PostForm))
		for k, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				raw[k] = vs[0]
			}
		}
		return raw, nil

	default:
		return decodeJSONObject(c.Request.Body)
	}
}

// decodeJSONObject reads exactly one JSON object. Numbers stay json.Number so
// out-of-range values are reported per field by the validator.
func decodeJSONObject(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.ErrInvalidBody
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, domain.ErrInvalidBody
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
