package pipeline

import "sort"

// Interval sources.
const (
	SourceDiarization = "diarization"
	SourceAlignment   = "alignment"
)

// Segment statuses produced by Sanitize.
const (
	StatusOK      = "ok"
	StatusClamped = "clamped"
	StatusDropped = "dropped"
)

// RawInterval is one speaker turn as reported by a diarization or
// alignment collaborator. It may be malformed in every way a clock-drifted
// external model can manage; Sanitize never mutates it.
type RawInterval struct {
	Speaker string
	Start   float64
	End     float64
	Source  string
}

// SanitizedSegment is a RawInterval after bounds repair. Index is the
// position of the originating interval in the input sequence and is the
// tiebreak for equal start times throughout the pipeline.
type SanitizedSegment struct {
	Speaker string
	Start   float64
	End     float64
	Status  string
	Index   int
}

// Live reports whether the segment carries audio worth extracting.
func (s SanitizedSegment) Live() bool {
	return s.Status != StatusDropped
}

// Sanitize validates and repairs raw intervals against the recording
// duration. Rules, per interval, in order: end <= start drops it; bounds
// are clamped to [0, duration] and clamping marks the segment; a
// post-clamp duration below minDuration drops it. Anomalies surface only
// through the Status field, never as errors. Overlaps between segments
// are passed through verbatim.
func Sanitize(raw []RawInterval, duration, minDuration float64) []SanitizedSegment {
	segments := make([]SanitizedSegment, 0, len(raw))
	for i, iv := range raw {
		seg := SanitizedSegment{
			Speaker: iv.Speaker,
			Start:   iv.Start,
			End:     iv.End,
			Index:   i,
		}

		if iv.End <= iv.Start {
			seg.Status = StatusDropped
			segments = append(segments, seg)
			continue
		}

		seg.Status = StatusOK
		if seg.Start < 0 {
			seg.Start = 0
			seg.Status = StatusClamped
		} else if seg.Start > duration {
			seg.Start = duration
			seg.Status = StatusClamped
		}
		if seg.End < 0 {
			seg.End = 0
			seg.Status = StatusClamped
		} else if seg.End > duration {
			seg.End = duration
			seg.Status = StatusClamped
		}

		if seg.End-seg.Start < minDuration {
			seg.Status = StatusDropped
		}

		segments = append(segments, seg)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments
}

// CountByStatus tallies segment dispositions for diagnostics.
func CountByStatus(segments []SanitizedSegment) (ok, clamped, dropped int) {
	for _, s := range segments {
		switch s.Status {
		case StatusClamped:
			clamped++
		case StatusDropped:
			dropped++
		default:
			ok++
		}
	}
	return
}
