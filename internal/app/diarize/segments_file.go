package diarize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/pipeline"
)

// segmentRecord is the on-disk shape of one diarization interval.
type segmentRecord struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// SegmentsFile replays a previously computed diarization result from
// disk, so a re-run of the same recording skips the diarization model
// entirely.
type SegmentsFile struct {
	path string
}

func NewSegmentsFile(path string) *SegmentsFile {
	return &SegmentsFile{path: path}
}

func (s *SegmentsFile) Diarize(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read segments file: %w", err)
	}
	return ParseSegments(data)
}

// ParseSegments decodes a diarization segments document, repairing the
// defects observed in files written by crashed upstream jobs before
// giving up.
func ParseSegments(data []byte) ([]pipeline.RawInterval, error) {
	records, err := decodeSegments(data)
	if err != nil {
		repaired := RepairJSON(string(data))
		records, err = decodeSegments([]byte(repaired))
		if err != nil {
			return nil, fmt.Errorf("segments document unparseable even after repair: %w", err)
		}
	}

	intervals := make([]pipeline.RawInterval, 0, len(records))
	for _, rec := range records {
		intervals = append(intervals, pipeline.RawInterval{
			Speaker: rec.Speaker,
			Start:   rec.Start,
			End:     rec.End,
			Source:  pipeline.SourceDiarization,
		})
	}
	return intervals, nil
}

func decodeSegments(data []byte) ([]segmentRecord, error) {
	var records []segmentRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	// Some writers wrap the list in an object.
	var doc struct {
		Segments []segmentRecord `json:"segments"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Segments == nil {
		return nil, fmt.Errorf("no segments key in document")
	}
	return doc.Segments, nil
}

// RepairJSON fixes the concrete corruptions seen in cached diarization
// files: stray 'ç' bytes from a mojibake-prone writer, and trailing
// commas before closing braces and brackets.
func RepairJSON(s string) string {
	s = strings.ReplaceAll(s, "ç", "")
	s = strings.ReplaceAll(s, ",}", "}")
	s = strings.ReplaceAll(s, ",]", "]")
	s = strings.ReplaceAll(s, ", }", "}")
	s = strings.ReplaceAll(s, ", ]", "]")
	return strings.TrimSpace(s)
}

// WriteSegments persists intervals in the segments-file format so later
// runs can reuse them.
func WriteSegments(path string, intervals []pipeline.RawInterval) error {
	records := make([]segmentRecord, 0, len(intervals))
	for _, iv := range intervals {
		records = append(records, segmentRecord{Speaker: iv.Speaker, Start: iv.Start, End: iv.End})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
