package pipeline

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Entry is one row of the externally visible transcript.
type Entry struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Confidence float64 `json:"confidence,omitempty"`
	Status     string  `json:"status"`
}

// Diagnostics are advisory counts surfaced alongside the transcript so
// callers can tell imperfect recognition from a structurally failed
// request.
type Diagnostics struct {
	SegmentsTotal   int `json:"segments_total"`
	SegmentsDropped int `json:"segments_dropped"`
	SegmentsClamped int `json:"segments_clamped"`
	SegmentsFailed  int `json:"segments_failed"`
	SegmentsSkipped int `json:"segments_skipped"`
	Speakers        int `json:"speakers"`
}

// Transcript is the final ordered result. Constructed once by Reassemble
// and never mutated afterwards.
type Transcript struct {
	Entries     []Entry     `json:"transcript"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Text joins entry texts into one string, skipping empties.
func (t *Transcript) Text() string {
	texts := lo.FilterMap(t.Entries, func(e Entry, _ int) (string, bool) {
		return e.Text, strings.TrimSpace(e.Text) != ""
	})
	return strings.Join(texts, " ")
}

// Reassemble merges per-segment results into one ordered transcript.
// Every live segment produces exactly one entry: failed and skipped
// segments keep their timing with empty text so a batch of n always
// yields n entries and the caller can tell "no speech" from "engine
// failure" per entry. Entries sort by start time with the original
// segment index as tiebreak. Adjacent same-speaker segments are never
// merged.
func Reassemble(results []SegmentTranscript, speakers *SpeakerMap) *Transcript {
	sorted := make([]SegmentTranscript, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Index < sorted[j].Index
	})

	entries := lo.Map(sorted, func(r SegmentTranscript, _ int) Entry {
		return Entry{
			Speaker:    speakers.Label(r.Speaker),
			Text:       r.Text,
			Start:      r.Start,
			End:        r.End,
			Confidence: r.Confidence,
			Status:     r.Status,
		}
	})

	t := &Transcript{Entries: entries}
	t.Diagnostics.Speakers = speakers.Len()
	for _, r := range results {
		switch r.Status {
		case StatusFailed:
			t.Diagnostics.SegmentsFailed++
		case StatusSkipped:
			t.Diagnostics.SegmentsSkipped++
		}
	}
	return t
}
