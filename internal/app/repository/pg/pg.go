package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"dualscribe/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
	id SERIAL PRIMARY KEY,
	request_id TEXT NOT NULL,
	session_id TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	audio_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
	segments_total INTEGER NOT NULL DEFAULT 0,
	segments_dropped INTEGER NOT NULL DEFAULT 0,
	segments_clamped INTEGER NOT NULL DEFAULT 0,
	segments_failed INTEGER NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transcripts_request_id ON transcripts(request_id);
`

// PostgresDAO stores transcript records in PostgreSQL.
type PostgresDAO struct {
	db *sql.DB
}

// NewPostgresDAO connects with a lib/pq connection string and ensures the
// schema exists.
func NewPostgresDAO(connStr string) (*PostgresDAO, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &PostgresDAO{db: db}, nil
}

// NewPostgresDAOWithDB wraps an existing handle. Used by unit tests to
// inject a mocked connection.
func NewPostgresDAOWithDB(db *sql.DB) *PostgresDAO {
	return &PostgresDAO{db: db}
}

func (d *PostgresDAO) Close() error {
	return d.db.Close()
}

func (d *PostgresDAO) Save(record *model.TranscriptRecord) (int64, error) {
	insertSQL := `INSERT INTO transcripts
		(request_id, session_id, mode, language, audio_duration,
		 segments_total, segments_dropped, segments_clamped, segments_failed,
		 transcript, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	var id int64
	err := d.db.QueryRow(insertSQL,
		record.RequestID, record.SessionID, record.Mode, record.Language, record.AudioDuration,
		record.SegmentsTotal, record.SegmentsDropped, record.SegmentsClamped, record.SegmentsFailed,
		record.Transcript, record.ErrorMessage).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}
	return id, nil
}

func (d *PostgresDAO) GetByID(id int64) (*model.TranscriptRecord, error) {
	query := `SELECT id, request_id, session_id, mode, language, audio_duration,
		segments_total, segments_dropped, segments_clamped, segments_failed,
		transcript, error_message, created_at
		FROM transcripts WHERE id = $1`
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

func (d *PostgresDAO) List(limit, offset int) ([]model.TranscriptRecord, error) {
	query := `SELECT id, request_id, session_id, mode, language, audio_duration,
		segments_total, segments_dropped, segments_clamped, segments_failed,
		transcript, error_message, created_at
		FROM transcripts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
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
