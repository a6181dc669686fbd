package audio

// Buffer holds decoded PCM samples as float64 in [-1, 1], one slice per channel.
// All channels have the same length.
type Buffer struct {
	channels [][]float64
	rate     int
}

// NewBuffer wraps pre-decoded channel data. Channels must be non-ragged;
// callers decoding through this package never produce ragged input.
func NewBuffer(channels [][]float64, rate int) *Buffer {
	return &Buffer{channels: channels, rate: rate}
}

// SampleRate returns the sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return b.rate
}

// Channels returns the channel count.
func (b *Buffer) Channels() int {
	return len(b.channels)
}

// Frames returns the number of sample frames per channel.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.rate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.rate)
}

// Empty reports whether the buffer has no usable samples.
func (b *Buffer) Empty() bool {
	return b == nil || b.rate == 0 || b.Frames() == 0
}

// Samples returns channel i's raw samples, shared with the buffer.
func (b *Buffer) Samples(i int) []float64 {
	if i < 0 || i >= len(b.channels) {
		return nil
	}
	return b.channels[i]
}

// Channel returns a mono view of channel i, sharing the underlying samples.
func (b *Buffer) Channel(i int) *Buffer {
	if i < 0 || i >= len(b.channels) {
		return &Buffer{rate: b.rate}
	}
	return &Buffer{channels: [][]float64{b.channels[i]}, rate: b.rate}
}

// Mixdown averages all channels into a mono buffer. A buffer that is
// already mono is returned as-is.
func (b *Buffer) Mixdown() *Buffer {
	if len(b.channels) <= 1 {
		return b
	}
	frames := b.Frames()
	mixed := make([]float64, frames)
	n := float64(len(b.channels))
	for _, ch := range b.channels {
		for i, s := range ch {
			mixed[i] += s / n
		}
	}
	return &Buffer{channels: [][]float64{mixed}, rate: b.rate}
}

// Slice returns the frames in [start, end) of every channel. The range is
// clamped to the true buffer length; the caller is told via the returned
// clamped flag so it can log the discrepancy. A fully out-of-range request
// yields an empty buffer, never an error.
func (b *Buffer) Slice(start, end int) (*Buffer, bool) {
	frames := b.Frames()
	clamped := false
	if start < 0 {
		start = 0
		clamped = true
	}
	if end > frames {
		end = frames
		clamped = true
	}
	if start >= end {
		return &Buffer{rate: b.rate}, clamped
	}
	out := make([][]float64, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ch[start:end]
	}
	return &Buffer{channels: out, rate: b.rate}, clamped
}
