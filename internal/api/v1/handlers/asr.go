package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dualscribe/internal/api/errors"
	"dualscribe/internal/api/middleware"
	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/api/v1/services"
)

// maxUploadBytes caps multipart audio uploads at 100 MiB.
const maxUploadBytes = 100 << 20

// ASRHandler exposes the recognition pipeline over HTTP.
type ASRHandler struct {
	service services.ASRService
}

func NewASRHandler(service services.ASRService) *ASRHandler {
	return &ASRHandler{service: service}
}

// Recognize handles POST /api/v1/asr with a base64 JSON payload.
func (h *ASRHandler) Recognize(c *gin.Context) {
	var req dto.ASRRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	audio, err := req.DecodedAudio()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("audio_data is not valid base64"))
		return
	}

	h.run(c, services.RecognizeInput{
		RequestID: c.GetString("request_id"),
		Audio:     audio,
		Format:    req.AudioFormat,
		Mode:      req.Mode,
		Language:  req.Language,
	})
}

// Upload handles POST /api/v1/asr/upload with a multipart audio file.
// Form fields mode, language and audio_format mirror the JSON body.
func (h *ASRHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio_file")
	if err != nil {
		// Some clients use the generic field name.
		file, header, err = c.Request.FormFile("file")
	}
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		middleware.HandleError(c, errors.NewBadRequestError("file too large"))
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("failed to read uploaded file"))
		return
	}

	mode := c.PostForm("mode")
	if mode == "" {
		mode = dto.ModeCombined
	}
	switch mode {
	case dto.ModeCombined, dto.ModeSplit, dto.ModeDiarized, dto.ModeAligned, dto.ModeMono:
	default:
		middleware.HandleError(c, errors.NewValidationError("Validation failed", map[string]string{
			"mode": "must be one of the allowed values",
		}))
		return
	}

	h.run(c, services.RecognizeInput{
		RequestID: c.GetString("request_id"),
		Audio:     audio,
		Format:    c.PostForm("audio_format"),
		Mode:      mode,
		Language:  c.PostForm("language"),
	})
}

// Mono handles POST /api/v1/asr/mono, the single-channel fast path. The
// body is the same JSON shape; any mode in it is ignored.
func (h *ASRHandler) Mono(c *gin.Context) {
	var req dto.ASRRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	audio, err := req.DecodedAudio()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("audio_data is not valid base64"))
		return
	}

	h.run(c, services.RecognizeInput{
		RequestID: c.GetString("request_id"),
		Audio:     audio,
		Format:    req.AudioFormat,
		Mode:      dto.ModeMono,
		Language:  req.Language,
	})
}

func (h *ASRHandler) run(c *gin.Context, input services.RecognizeInput) {
	result, err := h.service.Recognize(c.Request.Context(), input)
	if err != nil {
		middleware.HandleError(c, errors.FromPipelineError(err))
		return
	}
	c.JSON(http.StatusOK, &dto.ASRResponse{Status: "success", Data: result})
}
