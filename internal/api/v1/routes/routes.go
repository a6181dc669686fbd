package routes

import (
	"github.com/gin-gonic/gin"

	"dualscribe/internal/api/middleware"
	"dualscribe/internal/api/v1/handlers"
	"dualscribe/internal/api/v1/services"
)

// ServiceContainer holds the services handlers depend on. TTS and
// transcripts are optional; their routes are skipped when nil.
type ServiceContainer struct {
	ASRService        services.ASRService
	TTSService        services.TTSService
	TranscriptService services.TranscriptService
}

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	router.Use(middleware.RequestID())

	asrHandler := handlers.NewASRHandler(container.ASRService)
	asr := router.Group("/asr")
	{
		asr.POST("", asrHandler.Recognize)
		asr.POST("/upload", asrHandler.Upload)
		asr.POST("/mono", asrHandler.Mono)
	}

	if container.TTSService != nil {
		ttsHandler := handlers.NewTTSHandler(container.TTSService)
		router.POST("/tts", ttsHandler.Synthesize)
	}

	if container.TranscriptService != nil {
		transcriptHandler := handlers.NewTranscriptHandler(container.TranscriptService)
		transcripts := router.Group("/transcripts")
		{
			transcripts.GET("", transcriptHandler.List)
			transcripts.GET("/:id", transcriptHandler.Get)
		}
	}
}
