package pg

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualscribe/internal/app/model"
)

func newMockDAO(t *testing.T) (*PostgresDAO, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDAOWithDB(db), mock
}

func TestPostgresDAO_Save(t *testing.T) {
	dao, mock := newMockDAO(t)

	record := &model.TranscriptRecord{
		RequestID:       "req-1",
		SessionID:       "20260830_120000_abcde",
		Mode:            "diarized",
		Language:        "zh",
		AudioDuration:   12.5,
		SegmentsTotal:   4,
		SegmentsDropped: 1,
		SegmentsFailed:  1,
		Transcript:      "joined text",
	}

	mock.ExpectQuery(`INSERT INTO transcripts`).
		WithArgs(record.RequestID, record.SessionID, record.Mode, record.Language, record.AudioDuration,
			record.SegmentsTotal, record.SegmentsDropped, record.SegmentsClamped, record.SegmentsFailed,
			record.Transcript, record.ErrorMessage).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := dao.Save(record)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDAO_SaveError(t *testing.T) {
	dao, mock := newMockDAO(t)

	mock.ExpectQuery(`INSERT INTO transcripts`).
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := dao.Save(&model.TranscriptRecord{RequestID: "req-1", Mode: "combined"})
	assert.ErrorContains(t, err, "insert failed")
}

func transcriptColumns() []string {
	return []string{"id", "request_id", "session_id", "mode", "language", "audio_duration",
		"segments_total", "segments_dropped", "segments_clamped", "segments_failed",
		"transcript", "error_message", "created_at"}
}

func TestPostgresDAO_GetByID(t *testing.T) {
	dao, mock := newMockDAO(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM transcripts WHERE id`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(transcriptColumns()).
			AddRow(3, "req-3", "sess", "aligned", "en", 8.0, 5, 0, 1, 0, "text", "", now))

	got, err := dao.GetByID(3)
	require.NoError(t, err)
	assert.Equal(t, "req-3", got.RequestID)
	assert.Equal(t, "aligned", got.Mode)
	assert.Equal(t, 1, got.SegmentsClamped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDAO_List(t *testing.T) {
	dao, mock := newMockDAO(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM transcripts ORDER BY created_at`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(transcriptColumns()).
			AddRow(2, "req-2", "", "combined", "zh", 5.0, 1, 0, 0, 0, "b", "", now).
			AddRow(1, "req-1", "", "diarized", "zh", 9.0, 3, 1, 0, 1, "a", "", now))

	got, err := dao.List(10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "req-2", got[0].RequestID)
	assert.Equal(t, "req-1", got[1].RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
