package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualscribe/internal/app/pipeline"
)

func TestManager_Create(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, nil)

	s1, err := m.Create()
	require.NoError(t, err)
	s2, err := m.Create()
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
	assert.DirExists(t, s1.Dir)
	assert.DirExists(t, s2.Dir)
	assert.Regexp(t, `^\d{8}_\d{6}_[a-z0-9]{5}$`, s1.ID)
}

func TestSession_Artifacts(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, nil)
	s, err := m.Create()
	require.NoError(t, err)

	audioPath, err := s.SaveAudio("input.wav", []byte("RIFF"))
	require.NoError(t, err)
	assert.FileExists(t, audioPath)

	transcript := &pipeline.Transcript{
		Entries: []pipeline.Entry{
			{Speaker: "speakerA", Text: "hello", Start: 0, End: 2, Status: pipeline.StatusSuccess},
			{Speaker: "speakerB", Text: "world", Start: 3, End: 5, Status: pipeline.StatusSuccess},
		},
		Diagnostics: pipeline.Diagnostics{SegmentsTotal: 2},
	}

	resultsPath, err := s.WriteResults(transcript)
	require.NoError(t, err)
	assert.FileExists(t, resultsPath)

	summaryPath, err := s.WriteSummary(transcript)
	require.NoError(t, err)
	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[speakerA] 0.0s - 2.0s: hello")
	assert.Contains(t, string(data), "[speakerB] 3.0s - 5.0s: world")
	assert.Contains(t, string(data), "segments: 2 total")
}

func TestManager_CleanupOld(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, time.Hour, nil)

	fresh, err := m.Create()
	require.NoError(t, err)

	stale := filepath.Join(base, "20200101_000000_aaaaa")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	removed, err := m.CleanupOld()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh.Dir)
}

func TestManager_CleanupMissingBase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"), time.Hour, nil)
	removed, err := m.CleanupOld()
	require.NoError(t, err)
	assert.Zero(t, removed)
}
