package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dualscribe/internal/api/errors"
	"dualscribe/internal/api/middleware"
	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/api/v1/services"
)

// TTSHandler exposes speech synthesis over HTTP.
type TTSHandler struct {
	service services.TTSService
}

func NewTTSHandler(service services.TTSService) *TTSHandler {
	return &TTSHandler{service: service}
}

// Synthesize handles POST /api/v1/tts.
func (h *TTSHandler) Synthesize(c *gin.Context) {
	var req dto.TTSRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.Synthesize(c.Request.Context(), &req)
	if err != nil {
		if apiErr, ok := err.(*errors.APIError); ok {
			middleware.HandleError(c, apiErr)
			return
		}
		middleware.HandleError(c, errors.NewInternalError("synthesis failed"))
		return
	}

	c.JSON(http.StatusOK, &dto.TTSResponse{Status: "success", Data: result})
}
