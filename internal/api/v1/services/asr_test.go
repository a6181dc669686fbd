package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/diarize"
	apperrors "dualscribe/internal/app/errors"
	"dualscribe/internal/app/pipeline"
	"dualscribe/internal/app/session"
	"dualscribe/internal/app/testutil"
	"dualscribe/internal/config"
)

func testASRConfig() config.ASRConfig {
	return config.ASRConfig{
		Language:           "en",
		MinSegmentDuration: 0.1,
		SegmentWorkers:     2,
		SegmentTimeout:     config.Duration(5 * time.Second),
		SegmentRetries:     0,
	}
}

func testWAV(t *testing.T, channels, seconds int) []byte {
	t.Helper()
	rate := 16000
	data := make([][]float64, channels)
	for c := range data {
		data[c] = make([]float64, rate*seconds)
		for i := range data[c] {
			data[c][i] = 0.1
		}
	}
	return audio.EncodeWAV(audio.NewBuffer(data, rate))
}

func newTestService(t *testing.T, recognizer asr.Recognizer, diarizers []diarize.Diarizer, dao *testutil.MemoryDAO) (*DefaultASRService, string) {
	t.Helper()
	registry := asr.NewRegistry()
	require.NoError(t, registry.Register("mock", recognizer))

	baseDir := t.TempDir()
	sessions := session.NewManager(baseDir, time.Hour, zap.NewNop())

	svc := NewASRService(testASRConfig(), registry, diarizers, nil, sessions, dao, nil, zap.NewNop())
	return svc, baseDir
}

func TestASRService_Combined(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "hello world", Confidence: 0.9}}
	dao := &testutil.MemoryDAO{}
	svc, baseDir := newTestService(t, recognizer, nil, dao)

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeCombined,
	})
	require.NoError(t, err)

	require.Len(t, result.Transcript, 1)
	assert.Equal(t, "speakerA", result.Transcript[0].Speaker)
	assert.Equal(t, "hello world", result.Transcript[0].Text)
	assert.Equal(t, pipeline.StatusSuccess, result.Transcript[0].Status)
	assert.InDelta(t, 2.0, result.Duration, 0.01)
	assert.NotEmpty(t, result.RequestID)
	assert.NotEmpty(t, result.SessionID)

	records := dao.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "hello world", records[0].Transcript)
	assert.Equal(t, 1, records[0].SegmentsTotal)

	for _, name := range []string{"input.wav", "results.json", "summary.txt"} {
		_, err := os.Stat(filepath.Join(baseDir, result.SessionID, name))
		assert.NoError(t, err, name)
	}
}

func TestASRService_DecodeFailure(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "x"}}
	svc, _ := newTestService(t, recognizer, nil, &testutil.MemoryDAO{})

	_, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  []byte("definitely not audio"),
		Format: "wav",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoAudio))
	assert.Equal(t, 0, recognizer.Calls())
}

func TestASRService_Diarized(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "segment text", Confidence: 0.8}}
	diarizer := diarize.DiarizerFunc(func(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error) {
		return []pipeline.RawInterval{
			{Speaker: "SPEAKER_00", Start: 0, End: 1, Source: pipeline.SourceDiarization},
			{Speaker: "SPEAKER_01", Start: 1, End: 2, Source: pipeline.SourceDiarization},
		}, nil
	})
	dao := &testutil.MemoryDAO{}
	svc, baseDir := newTestService(t, recognizer, []diarize.Diarizer{diarizer}, dao)

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeDiarized,
	})
	require.NoError(t, err)

	require.Len(t, result.Transcript, 2)
	assert.Equal(t, "speakerA", result.Transcript[0].Speaker)
	assert.Equal(t, "speakerB", result.Transcript[1].Speaker)
	assert.Equal(t, 2, recognizer.Calls())

	_, err = os.Stat(filepath.Join(baseDir, result.SessionID, "diarize_segments.json"))
	assert.NoError(t, err)
}

func TestASRService_DiarizedFallsBackToWholeRecording(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "fallback"}}
	// Every interval is shorter than the minimum segment duration, so
	// sanitization drops them all.
	diarizer := diarize.DiarizerFunc(func(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error) {
		return []pipeline.RawInterval{
			{Speaker: "SPEAKER_00", Start: 0, End: 0.01, Source: pipeline.SourceDiarization},
		}, nil
	})
	svc, _ := newTestService(t, recognizer, []diarize.Diarizer{diarizer}, &testutil.MemoryDAO{})

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeDiarized,
	})
	require.NoError(t, err)
	require.Len(t, result.Transcript, 1)
	assert.Equal(t, "fallback", result.Transcript[0].Text)
	assert.InDelta(t, 2.0, result.Transcript[0].End, 0.01)
}

func TestASRService_DiarizedWithoutDiarizers(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "whole"}}
	svc, _ := newTestService(t, recognizer, nil, &testutil.MemoryDAO{})

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeDiarized,
	})
	require.NoError(t, err)
	require.Len(t, result.Transcript, 1)
}

func TestASRService_Split(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "channel text"}}
	svc, _ := newTestService(t, recognizer, nil, &testutil.MemoryDAO{})

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 2, 2),
		Format: "wav",
		Mode:   dto.ModeSplit,
	})
	require.NoError(t, err)

	require.Len(t, result.Transcript, 2)
	assert.NotEqual(t, result.Transcript[0].Speaker, result.Transcript[1].Speaker)
	assert.Equal(t, 2, recognizer.Calls())
}

func TestASRService_SplitOnMonoDegradesToCombined(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "mono"}}
	svc, _ := newTestService(t, recognizer, nil, &testutil.MemoryDAO{})

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeSplit,
	})
	require.NoError(t, err)
	require.Len(t, result.Transcript, 1)
}

func TestASRService_AlignedWithoutAligner(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "x"}}
	svc, _ := newTestService(t, recognizer, nil, &testutil.MemoryDAO{})

	_, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeAligned,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoAlignment))
}

func TestASRService_RecognizerFailureDoesNotAbort(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Err: errors.New("engine down")}
	dao := &testutil.MemoryDAO{}
	svc, _ := newTestService(t, recognizer, nil, dao)

	result, err := svc.Recognize(context.Background(), RecognizeInput{
		Audio:  testWAV(t, 1, 2),
		Format: "wav",
		Mode:   dto.ModeCombined,
	})
	require.NoError(t, err)

	require.Len(t, result.Transcript, 1)
	assert.Equal(t, pipeline.StatusFailed, result.Transcript[0].Status)
	assert.Empty(t, result.Transcript[0].Text)
	assert.Equal(t, 1, result.Diagnostics.SegmentsFailed)
}
