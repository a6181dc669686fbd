package handlers

import (
	"database/sql"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dualscribe/internal/api/errors"
	"dualscribe/internal/api/middleware"
	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/api/v1/services"
)

// TranscriptHandler serves stored request history.
type TranscriptHandler struct {
	service services.TranscriptService
}

func NewTranscriptHandler(service services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{service: service}
}

// List handles GET /api/v1/transcripts.
func (h *TranscriptHandler) List(c *gin.Context) {
	var query dto.TranscriptListQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	summaries, err := h.service.List(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to list transcripts"))
		return
	}

	c.JSON(http.StatusOK, &dto.TranscriptListResponse{Status: "success", Data: summaries})
}

// Get handles GET /api/v1/transcripts/:id.
func (h *TranscriptHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid transcript ID"))
		return
	}

	summary, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			middleware.HandleError(c, errors.NewNotFoundError("transcript"))
			return
		}
		middleware.HandleError(c, errors.NewInternalError("failed to load transcript"))
		return
	}

	c.JSON(http.StatusOK, &dto.TranscriptResponse{Status: "success", Data: summary})
}
