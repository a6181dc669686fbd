// Package openaispeech synthesizes speech through the OpenAI audio API.
package openaispeech

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"dualscribe/internal/app/tts"
)

// Synthesizer submits synthesis jobs to the OpenAI speech endpoint.
type Synthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
}

// New creates an OpenAI-backed Synthesizer. An empty model selects tts-1.
func New(client *openai.Client, model string) *Synthesizer {
	m := openai.SpeechModel(model)
	if model == "" {
		m = openai.TTSModel1
	}
	return &Synthesizer{client: client, model: m}
}

func (s *Synthesizer) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	voice := openai.VoiceAlloy
	if req.Voice != "" {
		voice = openai.SpeechVoice(req.Voice)
	}
	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          req.Text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return nil, fmt.Errorf("createSpeech failed: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	return data, nil
}
