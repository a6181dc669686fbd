// Package pipeline reconciles diarization output with a recording: it
// repairs interval boundaries, slices audio into per-speaker clips,
// orchestrates per-segment recognition with failure isolation, and
// reassembles an ordered speaker-labeled transcript.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/errors"
)

// Config holds the tunables of one pipeline instance. ExpectedSpeakers is
// advisory for diarization collaborators; the pipeline itself never caps
// the speaker count.
type Config struct {
	Language           string
	MinSegmentDuration float64
	SegmentWorkers     int
	SegmentTimeout     time.Duration
	SegmentRetries     int
	ExpectedSpeakers   int
}

// Pipeline is stateless across requests; every Run operates on its own
// buffer and interval list, so one instance serves concurrent requests.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes the full reconciliation. The only request-aborting
// failures are a missing buffer and zero usable segments; everything else
// degrades into per-segment statuses on the returned transcript.
func (p *Pipeline) Run(ctx context.Context, buf *audio.Buffer, intervals []RawInterval, recognize asr.Recognizer, channel ChannelSelector) (*Transcript, error) {
	if buf.Empty() {
		return nil, errors.ErrNoAudio
	}
	if len(intervals) == 0 {
		return nil, errors.ErrNoSegments
	}

	segments := Sanitize(intervals, buf.Duration(), p.cfg.MinSegmentDuration)
	ok, clamped, dropped := CountByStatus(segments)
	if ok+clamped == 0 {
		return nil, errors.Wrapf(errors.ErrNoSegments, "%d intervals all dropped during sanitization", len(intervals))
	}

	clips := Extract(buf, segments, channel, p.logger)
	speakers := Canonicalize(segments)

	orchestrator := NewOrchestrator(p.cfg.SegmentWorkers, p.cfg.SegmentTimeout, p.cfg.SegmentRetries, p.logger)
	results := orchestrator.TranscribeAll(ctx, clips, recognize, p.cfg.Language)

	transcript := Reassemble(results, speakers)
	transcript.Diagnostics.SegmentsTotal = len(intervals)
	transcript.Diagnostics.SegmentsDropped = dropped
	transcript.Diagnostics.SegmentsClamped = clamped

	p.logger.Info("pipeline complete",
		zap.Int("intervals", len(intervals)),
		zap.Int("dropped", dropped),
		zap.Int("clamped", clamped),
		zap.Int("failed", transcript.Diagnostics.SegmentsFailed),
		zap.Int("speakers", speakers.Len()))
	return transcript, nil
}
