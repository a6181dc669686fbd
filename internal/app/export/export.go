// Package export renders stored transcript records into spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"dualscribe/internal/app/model"
)

// ToExcel writes records to an xlsx workbook at outputFilePath.
func ToExcel(records []model.TranscriptRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Request ID"
	headerRow.AddCell().Value = "Session ID"
	headerRow.AddCell().Value = "Mode"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Audio Duration"
	headerRow.AddCell().Value = "Segments"
	headerRow.AddCell().Value = "Dropped"
	headerRow.AddCell().Value = "Clamped"
	headerRow.AddCell().Value = "Failed"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Error Message"
	headerRow.AddCell().Value = "Created At"

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(r.ID)
		row.AddCell().Value = r.RequestID
		row.AddCell().Value = r.SessionID
		row.AddCell().Value = r.Mode
		row.AddCell().Value = r.Language
		row.AddCell().Value = fmt.Sprintf("%.2f", r.AudioDuration)
		row.AddCell().Value = fmt.Sprint(r.SegmentsTotal)
		row.AddCell().Value = fmt.Sprint(r.SegmentsDropped)
		row.AddCell().Value = fmt.Sprint(r.SegmentsClamped)
		row.AddCell().Value = fmt.Sprint(r.SegmentsFailed)
		row.AddCell().Value = r.Transcript
		row.AddCell().Value = r.ErrorMessage
		row.AddCell().Value = r.CreatedAt.Format(time.RFC3339)
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save %s: %w", outputFilePath, err)
	}
	return nil
}
