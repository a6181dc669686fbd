package testutil

import (
	"database/sql"
	"sync"
	"time"

	"dualscribe/internal/app/model"
)

// MemoryDAO is an in-memory TranscriptDAO for tests.
type MemoryDAO struct {
	mu      sync.Mutex
	records []model.TranscriptRecord
	SaveErr error
}

func (d *MemoryDAO) Close() error { return nil }

func (d *MemoryDAO) Save(record *model.TranscriptRecord) (int64, error) {
	if d.SaveErr != nil {
		return 0, d.SaveErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	saved := *record
	saved.ID = len(d.records) + 1
	saved.CreatedAt = time.Now()
	d.records = append(d.records, saved)
	return int64(saved.ID), nil
}

func (d *MemoryDAO) GetByID(id int64) (*model.TranscriptRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.records {
		if int64(r.ID) == id {
			record := r
			return &record, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (d *MemoryDAO) List(limit, offset int) ([]model.TranscriptRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]model.TranscriptRecord, 0, limit)
	for i := len(d.records) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, d.records[i])
	}
	return out, nil
}

// Records returns a copy of everything saved so far.
func (d *MemoryDAO) Records() []model.TranscriptRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.TranscriptRecord, len(d.records))
	copy(out, d.records)
	return out
}
