// Package diarize provides speaker-turn detection collaborators for the
// transcription pipeline.
package diarize

import (
	"context"

	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/pipeline"
)

// Diarizer partitions a recording into speaker-attributed intervals. The
// intervals may be malformed; the pipeline sanitizer repairs them.
type Diarizer interface {
	Diarize(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error)
}

// DiarizerFunc adapts a function to the Diarizer interface.
type DiarizerFunc func(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error)

func (f DiarizerFunc) Diarize(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error) {
	return f(ctx, samples)
}
