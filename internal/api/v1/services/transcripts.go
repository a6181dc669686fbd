package services

import (
	"context"

	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/app/errors"
	"dualscribe/internal/app/model"
	"dualscribe/internal/app/repository"
)

// DefaultTranscriptService serves stored request history from the DAO.
type DefaultTranscriptService struct {
	dao repository.TranscriptDAO
}

func NewTranscriptService(dao repository.TranscriptDAO) *DefaultTranscriptService {
	return &DefaultTranscriptService{dao: dao}
}

func (s *DefaultTranscriptService) List(ctx context.Context, limit, offset int) ([]dto.TranscriptSummary, error) {
	records, err := s.dao.List(limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list transcripts")
	}
	summaries := make([]dto.TranscriptSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, toSummary(&rec))
	}
	return summaries, nil
}

func (s *DefaultTranscriptService) Get(ctx context.Context, id int64) (*dto.TranscriptSummary, error) {
	record, err := s.dao.GetByID(id)
	if err != nil {
		return nil, err
	}
	summary := toSummary(record)
	return &summary, nil
}

func toSummary(rec *model.TranscriptRecord) dto.TranscriptSummary {
	return dto.TranscriptSummary{
		ID:              rec.ID,
		RequestID:       rec.RequestID,
		SessionID:       rec.SessionID,
		Mode:            rec.Mode,
		Language:        rec.Language,
		AudioDuration:   rec.AudioDuration,
		SegmentsTotal:   rec.SegmentsTotal,
		SegmentsDropped: rec.SegmentsDropped,
		SegmentsClamped: rec.SegmentsClamped,
		SegmentsFailed:  rec.SegmentsFailed,
		Transcript:      rec.Transcript,
		ErrorMessage:    rec.ErrorMessage,
		CreatedAt:       rec.CreatedAt,
	}
}
