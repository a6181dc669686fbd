package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
	apperrors "dualscribe/internal/app/errors"
)

func testConfig() Config {
	return Config{
		Language:           "en",
		MinSegmentDuration: 0.1,
		SegmentWorkers:     2,
		SegmentRetries:     0,
	}
}

func echoRecognizer() asr.Recognizer {
	return asr.RecognizerFunc(func(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
		return asr.Result{
			Text:       fmt.Sprintf("%.1fs of speech", samples.Duration()),
			Confidence: 0.95,
		}, nil
	})
}

func TestPipeline_RoundTrip(t *testing.T) {
	// 8s mono recording, two well-formed intervals tagged "0" and "1".
	buf := audio.NewBuffer([][]float64{make([]float64, 8*1000)}, 1000)
	intervals := []RawInterval{
		{Speaker: "0", Start: 0.0, End: 2.0, Source: SourceDiarization},
		{Speaker: "1", Start: 3.0, End: 5.0, Source: SourceDiarization},
	}

	p := New(testConfig(), nil)
	got, err := p.Run(context.Background(), buf, intervals, echoRecognizer(), nil)
	require.NoError(t, err)

	require.Len(t, got.Entries, 2)
	assert.Equal(t, "speakerA", got.Entries[0].Speaker)
	assert.Equal(t, 0.0, got.Entries[0].Start)
	assert.Equal(t, "speakerB", got.Entries[1].Speaker)
	assert.Equal(t, 3.0, got.Entries[1].Start)
	assert.Equal(t, "2.0s of speech", got.Entries[0].Text)
	assert.Equal(t, 2, got.Diagnostics.SegmentsTotal)
	assert.Equal(t, 0, got.Diagnostics.SegmentsFailed)
}

func TestPipeline_NoAudio(t *testing.T) {
	p := New(testConfig(), nil)

	_, err := p.Run(context.Background(), nil, []RawInterval{{Speaker: "0", Start: 0, End: 1}}, echoRecognizer(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAudio)

	empty := audio.NewBuffer(nil, 16000)
	_, err = p.Run(context.Background(), empty, []RawInterval{{Speaker: "0", Start: 0, End: 1}}, echoRecognizer(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoAudio)
}

func TestPipeline_NoSegments(t *testing.T) {
	buf := audio.NewBuffer([][]float64{make([]float64, 8000)}, 1000)
	p := New(testConfig(), nil)

	_, err := p.Run(context.Background(), buf, nil, echoRecognizer(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoSegments)

	// All intervals malformed: still a request-level failure.
	bad := []RawInterval{
		{Speaker: "0", Start: 5, End: 5},
		{Speaker: "1", Start: 9, End: 2},
	}
	_, err = p.Run(context.Background(), buf, bad, echoRecognizer(), nil)
	assert.ErrorIs(t, err, apperrors.ErrNoSegments)
}

func TestPipeline_MalformedIntervalDoesNotAbort(t *testing.T) {
	buf := audio.NewBuffer([][]float64{make([]float64, 8*1000)}, 1000)
	intervals := []RawInterval{
		{Speaker: "0", Start: 0.0, End: 2.0},
		{Speaker: "1", Start: 4.0, End: 3.0}, // inverted, dropped
		{Speaker: "0", Start: 7.9, End: 9.5}, // clamped to 8.0
	}

	p := New(testConfig(), nil)
	got, err := p.Run(context.Background(), buf, intervals, echoRecognizer(), nil)
	require.NoError(t, err)

	require.Len(t, got.Entries, 2)
	assert.Equal(t, 3, got.Diagnostics.SegmentsTotal)
	assert.Equal(t, 1, got.Diagnostics.SegmentsDropped)
	assert.Equal(t, 1, got.Diagnostics.SegmentsClamped)
	assert.Equal(t, 8.0, got.Entries[1].End)
}

func TestPipeline_PartialFailureStillReturnsTranscript(t *testing.T) {
	buf := audio.NewBuffer([][]float64{make([]float64, 10*1000)}, 1000)
	intervals := []RawInterval{
		{Speaker: "0", Start: 0, End: 2},
		{Speaker: "1", Start: 2, End: 5}, // 3s clip fails below
		{Speaker: "0", Start: 5, End: 7},
	}
	recognize := asr.RecognizerFunc(func(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
		if samples.Duration() == 3.0 {
			return asr.Result{}, fmt.Errorf("engine error")
		}
		return asr.Result{Text: "fine"}, nil
	})

	p := New(testConfig(), nil)
	got, err := p.Run(context.Background(), buf, intervals, recognize, nil)
	require.NoError(t, err)

	// The failed middle segment stays in the transcript with empty text;
	// the segments around it are unaffected.
	require.Len(t, got.Entries, 3)
	assert.Equal(t, "fine", got.Entries[0].Text)
	assert.Equal(t, StatusFailed, got.Entries[1].Status)
	assert.Empty(t, got.Entries[1].Text)
	assert.Equal(t, 2.0, got.Entries[1].Start)
	assert.Equal(t, "fine", got.Entries[2].Text)
	assert.Equal(t, 1, got.Diagnostics.SegmentsFailed)
}

func TestPipeline_AllSegmentsFail(t *testing.T) {
	buf := audio.NewBuffer([][]float64{make([]float64, 10*1000)}, 1000)
	intervals := []RawInterval{
		{Speaker: "0", Start: 0, End: 2},
		{Speaker: "1", Start: 3, End: 5},
	}
	recognize := asr.RecognizerFunc(func(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
		return asr.Result{}, fmt.Errorf("engine down")
	})

	p := New(testConfig(), nil)
	got, err := p.Run(context.Background(), buf, intervals, recognize, nil)
	require.NoError(t, err, "all-failed recognition is not a request failure")

	require.Len(t, got.Entries, 2)
	for _, e := range got.Entries {
		assert.Empty(t, e.Text)
		assert.Equal(t, StatusFailed, e.Status)
	}
	assert.Equal(t, 2, got.Diagnostics.SegmentsFailed)
}

func TestPipeline_SplitChannelSelection(t *testing.T) {
	left := make([]float64, 6*1000)
	right := make([]float64, 6*1000)
	buf := audio.NewBuffer([][]float64{left, right}, 1000)
	intervals := []RawInterval{
		{Speaker: "0", Start: 0, End: 6},
		{Speaker: "1", Start: 0, End: 6},
	}
	byTag := func(seg SanitizedSegment) int {
		if seg.Speaker == "0" {
			return 0
		}
		return 1
	}

	var channels []int
	recognize := asr.RecognizerFunc(func(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
		channels = append(channels, samples.Channels())
		return asr.Result{Text: "side"}, nil
	})

	cfg := testConfig()
	cfg.SegmentWorkers = 1
	p := New(cfg, nil)
	got, err := p.Run(context.Background(), buf, intervals, recognize, byTag)
	require.NoError(t, err)

	require.Len(t, got.Entries, 2)
	assert.Equal(t, "speakerA", got.Entries[0].Speaker)
	assert.Equal(t, "speakerB", got.Entries[1].Speaker)
	assert.Equal(t, []int{1, 1}, channels)
}
