package dto

import "time"

// TranscriptListQuery holds pagination for GET /api/v1/transcripts.
type TranscriptListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,gte=1,lte=200"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}

func (q *TranscriptListQuery) Validate() error {
	if q.Limit == 0 {
		q.Limit = 50
	}
	return nil
}

// TranscriptSummary is one stored request in list and detail responses.
type TranscriptSummary struct {
	ID              int       `json:"id"`
	RequestID       string    `json:"request_id"`
	SessionID       string    `json:"session_id,omitempty"`
	Mode            string    `json:"mode"`
	Language        string    `json:"language"`
	AudioDuration   float64   `json:"audio_duration"`
	SegmentsTotal   int       `json:"segments_total"`
	SegmentsDropped int       `json:"segments_dropped"`
	SegmentsClamped int       `json:"segments_clamped"`
	SegmentsFailed  int       `json:"segments_failed"`
	Transcript      string    `json:"transcript"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TranscriptListResponse is the envelope for the list endpoint.
type TranscriptListResponse struct {
	Status string              `json:"status"`
	Data   []TranscriptSummary `json:"data"`
}

// TranscriptResponse is the envelope for the detail endpoint.
type TranscriptResponse struct {
	Status string             `json:"status"`
	Data   *TranscriptSummary `json:"data"`
}
