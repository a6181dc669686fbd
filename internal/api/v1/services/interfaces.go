package services

import (
	"context"

	"dualscribe/internal/api/v1/dto"
)

// RecognizeInput is one inbound recognition job, already decoded from
// whichever transport shape (JSON base64 or multipart) it arrived in.
type RecognizeInput struct {
	RequestID string
	Audio     []byte
	Format    string
	Mode      string
	Language  string
}

// ASRService runs the recognition pipeline for one request.
type ASRService interface {
	Recognize(ctx context.Context, input RecognizeInput) (*dto.ASRResult, error)
}

// TTSService synthesizes speech from text.
type TTSService interface {
	Synthesize(ctx context.Context, req *dto.TTSRequest) (*dto.TTSResult, error)
}

// TranscriptService reads stored request history.
type TranscriptService interface {
	List(ctx context.Context, limit, offset int) ([]dto.TranscriptSummary, error)
	Get(ctx context.Context, id int64) (*dto.TranscriptSummary, error)
}
