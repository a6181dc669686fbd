package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/testutil"
	"dualscribe/internal/config"
)

func writeTestWAV(t *testing.T, dir, name string) string {
	t.Helper()
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.1
	}
	buf := audio.NewBuffer([][]float64{samples}, 16000)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, audio.EncodeWAV(buf), 0o644))
	return path
}

func newTestRunner(t *testing.T, recognizer asr.Recognizer, dao *testutil.MemoryDAO) *Runner {
	t.Helper()
	registry := asr.NewRegistry()
	require.NoError(t, registry.Register("mock", recognizer))

	cfg := config.Default()
	cfg.ASR.Language = "en"
	cfg.ASR.SegmentTimeout = config.Duration(5 * time.Second)

	return NewRunner(cfg, registry, dao, ProgressConfig{Enabled: false}, zap.NewNop())
}

func TestRunner_ProcessDir(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "transcribed text"}}
	dao := &testutil.MemoryDAO{}
	runner := newTestRunner(t, recognizer, dao)

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestWAV(t, inputDir, "one.wav")
	writeTestWAV(t, inputDir, "two.wav")

	err := runner.ProcessDir(context.Background(), inputDir, "wav", outputDir, "", 2)
	require.NoError(t, err)

	for _, name := range []string{"one.txt", "two.txt"} {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, "transcribed text", string(data))
	}
	assert.Equal(t, 2, recognizer.Calls())
	assert.Len(t, dao.Records(), 2)
}

func TestRunner_SkipsAlreadyTranscribed(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "new"}}
	runner := newTestRunner(t, recognizer, &testutil.MemoryDAO{})

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeTestWAV(t, inputDir, "done.wav")
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "done.txt"), []byte("old"), 0o644))

	err := runner.ProcessDir(context.Background(), inputDir, "wav", outputDir, "", 1)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "done.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.Equal(t, 0, recognizer.Calls())
}

func TestRunner_FailureDoesNotStopBatch(t *testing.T) {
	recognizer := &testutil.MockRecognizer{Result: asr.Result{Text: "ok"}}
	dao := &testutil.MemoryDAO{}
	runner := newTestRunner(t, recognizer, dao)

	inputDir := t.TempDir()
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "broken.wav"), []byte("not a wav"), 0o644))
	writeTestWAV(t, inputDir, "valid.wav")

	err := runner.ProcessFiles(context.Background(), []string{
		filepath.Join(inputDir, "broken.wav"),
		filepath.Join(inputDir, "valid.wav"),
	}, outputDir, "", 1)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outputDir, "valid.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outputDir, "broken.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestListFiles_FiltersExtension(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, dir, "a.wav")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp3"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("x"), 0o644))

	paths, err := listFiles(dir, "wav")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "a.wav", filepath.Base(paths[0]))
}
