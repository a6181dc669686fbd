// Package align loads pre-computed alignment results and exposes them as
// intervals for the transcription pipeline's alignment mode.
package align

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/pipeline"
)

// Aligner maps a transcript hint onto precise time boundaries. Alignment
// itself is an external model; this package only represents the boundary.
type Aligner interface {
	Align(ctx context.Context, samples *audio.Buffer, transcriptHint string) ([]pipeline.RawInterval, error)
}

// resultRecord is one aligned phrase in an alignment_result document.
type resultRecord struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ResultFile replays an alignment result computed by an earlier run.
// Aligned phrases carry no speaker attribution, so each interval gets a
// positional tag; canonicalization downstream treats the tags as opaque.
type ResultFile struct {
	path string
}

func NewResultFile(path string) *ResultFile {
	return &ResultFile{path: path}
}

func (r *ResultFile) Align(ctx context.Context, samples *audio.Buffer, transcriptHint string) ([]pipeline.RawInterval, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read alignment result: %w", err)
	}
	return ParseResult(data)
}

// ParseResult decodes an alignment result document into intervals.
func ParseResult(data []byte) ([]pipeline.RawInterval, error) {
	var records []resultRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var doc struct {
			Segments []resultRecord `json:"segments"`
		}
		if err2 := json.Unmarshal(data, &doc); err2 != nil || doc.Segments == nil {
			return nil, fmt.Errorf("alignment result unparseable: %w", err)
		}
		records = doc.Segments
	}

	intervals := make([]pipeline.RawInterval, 0, len(records))
	for i, rec := range records {
		intervals = append(intervals, pipeline.RawInterval{
			Speaker: fmt.Sprintf("SEGMENT_%03d", i),
			Start:   rec.Start,
			End:     rec.End,
			Source:  pipeline.SourceAlignment,
		})
	}
	return intervals, nil
}
