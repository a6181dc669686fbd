// Package tts defines the text-to-speech capability boundary.
package tts

import "context"

// Request describes one synthesis job.
type Request struct {
	Text  string
	Voice string
	Speed float64
}

// Synthesizer turns text into a WAV byte stream.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}
