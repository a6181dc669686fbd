package dto

import (
	"encoding/base64"
	"fmt"

	"dualscribe/internal/api/errors"
	"dualscribe/internal/app/pipeline"
)

// Recognition modes.
const (
	ModeCombined = "combined" // whole recording, one pass
	ModeSplit    = "split"    // dual-channel, one speaker per channel
	ModeDiarized = "diarized" // diarization-driven segmentation
	ModeAligned  = "aligned"  // pre-computed alignment drives segmentation
	ModeMono     = "mono"     // single channel fast path, no attribution
)

// ASRRequest is the JSON body of POST /api/v1/asr.
type ASRRequest struct {
	AudioData   string `json:"audio_data" binding:"required"`
	AudioFormat string `json:"audio_format"`
	Mode        string `json:"mode" binding:"omitempty,oneof=combined split diarized aligned"`
	Language    string `json:"language"`
}

// Validate applies domain rules beyond struct tags.
func (r *ASRRequest) Validate() error {
	if r.Mode == "" {
		r.Mode = ModeCombined
	}
	if _, err := base64.StdEncoding.DecodeString(r.AudioData); err != nil {
		return errors.NewValidationError("Validation failed", map[string]string{
			"audio_data": "must be valid base64",
		})
	}
	return nil
}

// DecodedAudio returns the raw audio payload.
func (r *ASRRequest) DecodedAudio() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.AudioData)
	if err != nil {
		return nil, fmt.Errorf("decode audio_data: %w", err)
	}
	return data, nil
}

// ASRResult is the payload of a successful recognition response.
type ASRResult struct {
	RequestID   string               `json:"request_id"`
	SessionID   string               `json:"session_id,omitempty"`
	Mode        string               `json:"mode"`
	Language    string               `json:"language"`
	Duration    float64              `json:"duration_seconds"`
	Transcript  []pipeline.Entry     `json:"transcript"`
	Diagnostics pipeline.Diagnostics `json:"diagnostics"`
}

// ASRResponse is the envelope for recognition responses.
type ASRResponse struct {
	Status string     `json:"status"`
	Data   *ASRResult `json:"data"`
}
