package services

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/app/metrics"
	"dualscribe/internal/app/tts"
	"dualscribe/internal/config"
)

// DefaultTTSService adapts the synthesizer boundary to the HTTP surface.
type DefaultTTSService struct {
	cfg         config.TTSConfig
	synthesizer tts.Synthesizer
	logger      *zap.Logger
}

func NewTTSService(cfg config.TTSConfig, synthesizer tts.Synthesizer, logger *zap.Logger) *DefaultTTSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTTSService{cfg: cfg, synthesizer: synthesizer, logger: logger}
}

func (s *DefaultTTSService) Synthesize(ctx context.Context, req *dto.TTSRequest) (*dto.TTSResult, error) {
	if s.synthesizer == nil {
		metrics.SynthesisTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("no synthesizer configured")
	}

	voice := req.Voice
	if voice == "" {
		voice = s.cfg.Voice
	}
	speed := req.Speed
	if speed == 0 {
		speed = s.cfg.Speed
	}

	audio, err := s.synthesizer.Synthesize(ctx, tts.Request{
		Text:  req.Text,
		Voice: voice,
		Speed: speed,
	})
	if err != nil {
		metrics.SynthesisTotal.WithLabelValues("error").Inc()
		s.logger.Warn("synthesis failed", zap.Int("text_len", len(req.Text)), zap.Error(err))
		return nil, err
	}

	metrics.SynthesisTotal.WithLabelValues("success").Inc()
	return &dto.TTSResult{
		AudioData: base64.StdEncoding.EncodeToString(audio),
		Format:    "wav",
	}, nil
}
