package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualscribe/internal/app/audio"
)

func monoBuffer(frames, rate int) *audio.Buffer {
	return audio.NewBuffer([][]float64{make([]float64, frames)}, rate)
}

func TestExtract_SkipsDropped(t *testing.T) {
	buf := monoBuffer(1000, 100)
	segments := []SanitizedSegment{
		{Speaker: "0", Start: 0, End: 2, Status: StatusOK, Index: 0},
		{Speaker: "1", Start: 3, End: 3, Status: StatusDropped, Index: 1},
		{Speaker: "0", Start: 4, End: 6, Status: StatusClamped, Index: 2},
	}

	clips := Extract(buf, segments, nil, nil)
	require.Len(t, clips, 2)
	assert.Equal(t, 0, clips[0].Segment.Index)
	assert.Equal(t, 2, clips[1].Segment.Index)
}

func TestExtract_FrameRounding(t *testing.T) {
	// 100 Hz: start rounds down, end rounds up, so no content is lost.
	buf := monoBuffer(1000, 100)
	segments := []SanitizedSegment{
		{Speaker: "0", Start: 1.204, End: 2.301, Status: StatusOK},
	}

	clips := Extract(buf, segments, nil, nil)
	require.Len(t, clips, 1)
	assert.Equal(t, 231-120, clips[0].Samples.Frames())
}

func TestExtract_ClampsToBufferLength(t *testing.T) {
	// Sanitizer was told duration 12s but the decoded buffer only holds 10s.
	buf := monoBuffer(1000, 100)
	segments := []SanitizedSegment{
		{Speaker: "0", Start: 9, End: 12, Status: StatusOK},
	}

	clips := Extract(buf, segments, nil, nil)
	require.Len(t, clips, 1)
	assert.Equal(t, 100, clips[0].Samples.Frames())
}

func TestExtract_ChannelSelection(t *testing.T) {
	left := make([]float64, 400)
	right := make([]float64, 400)
	for i := range left {
		left[i] = 0.5
		right[i] = -0.5
	}
	buf := audio.NewBuffer([][]float64{left, right}, 100)

	segments := []SanitizedSegment{
		{Speaker: "0", Start: 0, End: 1, Status: StatusOK},
		{Speaker: "1", Start: 1, End: 2, Status: StatusOK},
	}
	byTag := func(seg SanitizedSegment) int {
		if seg.Speaker == "0" {
			return 0
		}
		return 1
	}

	clips := Extract(buf, segments, byTag, nil)
	require.Len(t, clips, 2)
	assert.Equal(t, 1, clips[0].Samples.Channels())
	assert.Equal(t, 1, clips[1].Samples.Channels())

	// Mixdown when no selector is given.
	mixed := Extract(buf, segments[:1], nil, nil)
	require.Len(t, mixed, 1)
	assert.Equal(t, 1, mixed[0].Samples.Channels())
}
