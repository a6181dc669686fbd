package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dualscribe/internal/app/asr"
)

// Recognition statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// SegmentTranscript is one segment's recognition outcome. Failed and
// skipped entries retain their timing but hold empty text.
type SegmentTranscript struct {
	Speaker    string
	Text       string
	Start      float64
	End        float64
	Confidence float64
	Status     string
	Index      int
}

// Orchestrator drives per-segment recognition calls with failure
// isolation. A failure on one segment never prevents the rest from being
// processed; hangs convert to failed status through the per-call timeout.
type Orchestrator struct {
	workers int
	timeout time.Duration
	retries int
	logger  *zap.Logger
}

// NewOrchestrator configures the segment worker pool. workers <= 0 means
// one worker; timeout <= 0 disables the per-call deadline; retries is the
// number of additional attempts after the first failure.
func NewOrchestrator(workers int, timeout time.Duration, retries int, logger *zap.Logger) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{workers: workers, timeout: timeout, retries: retries, logger: logger}
}

// TranscribeAll recognizes every clip and returns one SegmentTranscript
// per clip, in clip order. Ordering of the final transcript is restored
// by Reassemble from segment start times, not from completion order here.
func (o *Orchestrator) TranscribeAll(ctx context.Context, clips []Clip, recognize asr.Recognizer, language string) []SegmentTranscript {
	results := make([]SegmentTranscript, len(clips))

	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup
	for i, clip := range clips {
		wg.Add(1)
		go func(i int, clip Clip) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.transcribeOne(ctx, clip, recognize, language)
		}(i, clip)
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) transcribeOne(ctx context.Context, clip Clip, recognize asr.Recognizer, language string) SegmentTranscript {
	entry := SegmentTranscript{
		Speaker: clip.Segment.Speaker,
		Start:   clip.Segment.Start,
		End:     clip.Segment.End,
		Index:   clip.Segment.Index,
	}

	if clip.Samples.Empty() {
		o.logger.Warn("segment has no samples, skipping recognition",
			zap.String("speaker", entry.Speaker),
			zap.Float64("start", entry.Start),
			zap.Float64("end", entry.End))
		entry.Status = StatusSkipped
		return entry
	}

	var lastErr error
	for attempt := 0; attempt <= o.retries; attempt++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		result, err := o.recognizeWithTimeout(ctx, clip, recognize, language)
		if err == nil {
			entry.Text = result.Text
			entry.Confidence = result.Confidence
			entry.Status = StatusSuccess
			return entry
		}
		lastErr = err
		o.logger.Warn("segment recognition attempt failed",
			zap.Int("attempt", attempt+1),
			zap.String("speaker", entry.Speaker),
			zap.Float64("start", entry.Start),
			zap.Error(err))
	}

	o.logger.Error("segment recognition failed, continuing with remaining segments",
		zap.String("speaker", entry.Speaker),
		zap.Float64("start", entry.Start),
		zap.Float64("end", entry.End),
		zap.Error(lastErr))
	entry.Status = StatusFailed
	return entry
}

func (o *Orchestrator) recognizeWithTimeout(ctx context.Context, clip Clip, recognize asr.Recognizer, language string) (asr.Result, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return recognize.Recognize(ctx, clip.Samples, language)
}
