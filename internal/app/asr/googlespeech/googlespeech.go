// Package googlespeech recognizes speech through the Google Cloud
// Speech-to-Text API.
package googlespeech

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
)

// Recognizer submits sample buffers to Google Cloud Speech.
type Recognizer struct {
	client *speech.Client
}

// New wraps an already-authenticated speech client.
func New(client *speech.Client) *Recognizer {
	return &Recognizer{client: client}
}

// NewFromEnv creates a client using application default credentials.
func NewFromEnv(ctx context.Context) (*Recognizer, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Recognizer{client: client}, nil
}

// Close releases the underlying gRPC connection.
func (r *Recognizer) Close() error {
	return r.client.Close()
}

// Recognize sends the buffer as LINEAR16 content. Multi-channel buffers
// are mixed down first; the per-segment pipeline only submits mono clips,
// but whole-recording callers may not.
func (r *Recognizer) Recognize(ctx context.Context, samples *audio.Buffer, language string) (asr.Result, error) {
	mono := samples.Mixdown()

	resp, err := r.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(mono.SampleRate()),
			LanguageCode:    languageCode(language),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio.EncodePCM16(mono),
			},
		},
	})
	if err != nil {
		return asr.Result{}, fmt.Errorf("recognize failed: %w", err)
	}

	var (
		text       string
		confidence float64
		n          int
	)
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		best := result.Alternatives[0]
		if text != "" {
			text += " "
		}
		text += best.Transcript
		confidence += float64(best.Confidence)
		n++
	}
	if n > 0 {
		confidence /= float64(n)
	}

	return asr.Result{Text: text, Confidence: confidence}, nil
}

// languageCode widens bare ISO-639 tags to the BCP-47 codes the API
// expects. Tags already carrying a region pass through.
func languageCode(language string) string {
	switch language {
	case "", "zh":
		return "cmn-Hans-CN"
	case "en":
		return "en-US"
	case "ja":
		return "ja-JP"
	case "ko":
		return "ko-KR"
	default:
		return language
	}
}
