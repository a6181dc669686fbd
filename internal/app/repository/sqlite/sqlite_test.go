package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualscribe/internal/app/model"
)

func newTestDAO(t *testing.T) *SQLiteDAO {
	dao, err := NewSQLiteDAO(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dao.Close() })
	return dao
}

func TestSQLiteDAO_SaveAndGet(t *testing.T) {
	dao := newTestDAO(t)

	record := &model.TranscriptRecord{
		RequestID:       "req-1",
		SessionID:       "20260830_120000_abcde",
		Mode:            "diarized",
		Language:        "zh",
		AudioDuration:   42.3,
		SegmentsTotal:   6,
		SegmentsDropped: 2,
		SegmentsClamped: 1,
		SegmentsFailed:  1,
		Transcript:      "你好 世界",
	}

	id, err := dao.Save(record)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := dao.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, record.RequestID, got.RequestID)
	assert.Equal(t, record.Mode, got.Mode)
	assert.Equal(t, record.SegmentsDropped, got.SegmentsDropped)
	assert.Equal(t, record.Transcript, got.Transcript)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteDAO_GetMissing(t *testing.T) {
	dao := newTestDAO(t)
	_, err := dao.GetByID(999)
	assert.Error(t, err)
}

func TestSQLiteDAO_List(t *testing.T) {
	dao := newTestDAO(t)

	for i := 0; i < 3; i++ {
		_, err := dao.Save(&model.TranscriptRecord{
			RequestID: "req",
			Mode:      "combined",
		})
		require.NoError(t, err)
	}

	got, err := dao.List(2, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	rest, err := dao.List(10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	// Newest first by insertion order.
	assert.Greater(t, got[0].ID, got[1].ID)
}
