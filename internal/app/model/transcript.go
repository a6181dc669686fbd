package model

import "time"

// TranscriptRecord is the persisted trace of one recognition request.
type TranscriptRecord struct {
	ID              int
	RequestID       string
	SessionID       string
	Mode            string
	Language        string
	AudioDuration   float64
	SegmentsTotal   int
	SegmentsDropped int
	SegmentsClamped int
	SegmentsFailed  int
	Transcript      string
	ErrorMessage    string
	CreatedAt       time.Time
}
