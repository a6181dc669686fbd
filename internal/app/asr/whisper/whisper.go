// Package whisper recognizes speech through the OpenAI transcription API.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
)

// Recognizer submits sample buffers to the OpenAI Whisper endpoint.
type Recognizer struct {
	client *openai.Client
	model  string
}

// New creates a Whisper-backed Recognizer. An empty model selects
// whisper-1.
func New(client *openai.Client, model string) *Recognizer {
	if model == "" {
		model = openai.Whisper1
	}
	return &Recognizer{client: client, model: model}
}

// Recognize encodes the buffer as WAV and requests a verbose transcription
// so segment log-probabilities can back the confidence estimate.
func (r *Recognizer) Recognize(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
	req := openai.AudioRequest{
		Model:    r.model,
		Reader:   bytes.NewReader(audio.EncodeWAV(samples)),
		FilePath: "segment.wav",
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	resp, err := r.client.CreateTranscription(ctx, req)
	if err != nil {
		return asr.Result{}, fmt.Errorf("createTranscription failed: %w", err)
	}

	return asr.Result{
		Text:       resp.Text,
		Confidence: confidenceFromSegments(resp),
	}, nil
}

// confidenceFromSegments converts mean average log-probability into a
// [0, 1] confidence. Responses without segment detail report 1.0.
func confidenceFromSegments(resp openai.AudioResponse) float64 {
	segments := resp.Segments
	if len(segments) == 0 {
		return 1.0
	}
	var sum float64
	for _, s := range segments {
		sum += s.AvgLogprob
	}
	confidence := math.Exp(sum / float64(len(segments)))
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}
