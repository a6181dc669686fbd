package pipeline

import (
	"math"

	"go.uber.org/zap"

	"dualscribe/internal/app/audio"
)

// ChannelSelector decides which channel of a multi-channel recording a
// segment should be sliced from. Return a channel index, or -1 for a
// mixdown of all channels. A nil selector always mixes down.
type ChannelSelector func(seg SanitizedSegment) int

// Clip pairs a live sanitized segment with its slice of the recording.
type Clip struct {
	Segment SanitizedSegment
	Samples *audio.Buffer
}

// Extract slices the recording into per-segment clips, skipping dropped
// segments. Second boundaries convert to frame indices with start rounded
// down and end rounded up so no audio content is truncated. Indices past
// the true buffer length are clamped and logged as a data-quality warning;
// this never fails the request.
func Extract(buf *audio.Buffer, segments []SanitizedSegment, select_ ChannelSelector, logger *zap.Logger) []Clip {
	if logger == nil {
		logger = zap.NewNop()
	}
	rate := float64(buf.SampleRate())

	clips := make([]Clip, 0, len(segments))
	for _, seg := range segments {
		if !seg.Live() {
			continue
		}

		src := buf
		if buf.Channels() > 1 {
			ch := -1
			if select_ != nil {
				ch = select_(seg)
			}
			if ch >= 0 && ch < buf.Channels() {
				src = buf.Channel(ch)
			} else {
				src = buf.Mixdown()
			}
		}

		startFrame := int(math.Floor(seg.Start * rate))
		endFrame := int(math.Ceil(seg.End * rate))
		samples, clamped := src.Slice(startFrame, endFrame)
		if clamped {
			logger.Warn("segment exceeds decoded buffer, clamping to true length",
				zap.String("speaker", seg.Speaker),
				zap.Float64("start", seg.Start),
				zap.Float64("end", seg.End),
				zap.Int("buffer_frames", src.Frames()))
		}

		clips = append(clips, Clip{Segment: seg, Samples: samples})
	}
	return clips
}
