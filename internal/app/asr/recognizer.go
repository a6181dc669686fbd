// Package asr defines the speech-recognition capability boundary and its
// provider implementations.
package asr

import (
	"context"

	"dualscribe/internal/app/audio"
)

// Result is one recognition engine answer for one buffer of samples.
type Result struct {
	Text       string
	Confidence float64
}

// Recognizer is the capability contract: given a buffer of samples and a
// target language, return text and confidence. Implementations must be
// safe for concurrent use; the segment orchestrator calls them from
// multiple goroutines.
type Recognizer interface {
	Recognize(ctx context.Context, samples *audio.Buffer, language string) (Result, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, samples *audio.Buffer, language string) (Result, error)

func (f RecognizerFunc) Recognize(ctx context.Context, samples *audio.Buffer, language string) (Result, error) {
	return f(ctx, samples, language)
}
