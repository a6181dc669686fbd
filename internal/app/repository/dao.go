package repository

import (
	"dualscribe/internal/app/model"
)

// TranscriptDAO persists the trace of every recognition request so
// results can be listed and exported later.
type TranscriptDAO interface {
	Close() error

	Save(record *model.TranscriptRecord) (int64, error)

	GetByID(id int64) (*model.TranscriptRecord, error)

	List(limit, offset int) ([]model.TranscriptRecord, error)
}
