package dto

import (
	"dualscribe/internal/api/errors"
)

const maxSynthesisChars = 4096

// TTSRequest is the JSON body of POST /api/v1/tts.
type TTSRequest struct {
	Text  string  `json:"text" binding:"required"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed" binding:"omitempty,gte=0.25,lte=4"`
}

func (r *TTSRequest) Validate() error {
	if len(r.Text) > maxSynthesisChars {
		return errors.NewValidationError("Validation failed", map[string]string{
			"text": "exceeds maximum length",
		})
	}
	return nil
}

// TTSResult carries the synthesized audio.
type TTSResult struct {
	AudioData string `json:"audio_data"` // base64 WAV
	Format    string `json:"format"`
}

// TTSResponse is the envelope for synthesis responses.
type TTSResponse struct {
	Status string     `json:"status"`
	Data   *TTSResult `json:"data"`
}
