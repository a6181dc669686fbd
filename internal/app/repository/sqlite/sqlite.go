package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"dualscribe/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	audio_duration REAL NOT NULL DEFAULT 0,
	segments_total INTEGER NOT NULL DEFAULT 0,
	segments_dropped INTEGER NOT NULL DEFAULT 0,
	segments_clamped INTEGER NOT NULL DEFAULT 0,
	segments_failed INTEGER NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transcripts_request_id ON transcripts(request_id);
`

// SQLiteDAO stores transcript records in a local sqlite file.
type SQLiteDAO struct {
	db *sql.DB
}

// NewSQLiteDAO opens (and if needed creates) the database at dbFilePath.
func NewSQLiteDAO(dbFilePath string) (*SQLiteDAO, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLiteDAO{db: db}, nil
}

func (d *SQLiteDAO) Close() error {
	return d.db.Close()
}

func (d *SQLiteDAO) Save(record *model.TranscriptRecord) (int64, error) {
	insertSQL := `INSERT INTO transcripts
		(request_id, session_id, mode, language, audio_duration,
		 segments_total, segments_dropped, segments_clamped, segments_failed,
		 transcript, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	result, err := d.db.Exec(insertSQL,
		record.RequestID, record.SessionID, record.Mode, record.Language, record.AudioDuration,
		record.SegmentsTotal, record.SegmentsDropped, record.SegmentsClamped, record.SegmentsFailed,
		record.Transcript, record.ErrorMessage)
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	return result.LastInsertId()
}

func (d *SQLiteDAO) GetByID(id int64) (*model.TranscriptRecord, error) {
	query := `SELECT id, request_id, session_id, mode, language, audio_duration,
		segments_total, segments_dropped, segments_clamped, segments_failed,
		transcript, error_message, created_at
		FROM transcripts WHERE id = ?`
	row := d.db.QueryRow(query, id)

	var r model.TranscriptRecord
	err := row.Scan(&r.ID, &r.RequestID, &r.SessionID, &r.Mode, &r.Language, &r.AudioDuration,
		&r.SegmentsTotal, &r.SegmentsDropped, &r.SegmentsClamped, &r.SegmentsFailed,
		&r.Transcript, &r.ErrorMessage, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (d *SQLiteDAO) List(limit, offset int) ([]model.TranscriptRecord, error) {
	query := `SELECT id, request_id, session_id, mode, language, audio_duration,
		segments_total, segments_dropped, segments_clamped, segments_failed,
		transcript, error_message, created_at
		FROM transcripts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := d.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.TranscriptRecord, 0)
	for rows.Next() {
		var r model.TranscriptRecord
		err = rows.Scan(&r.ID, &r.RequestID, &r.SessionID, &r.Mode, &r.Language, &r.AudioDuration,
			&r.SegmentsTotal, &r.SegmentsDropped, &r.SegmentsClamped, &r.SegmentsFailed,
			&r.Transcript, &r.ErrorMessage, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
