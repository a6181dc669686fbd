package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// DecodeWAV parses a RIFF/WAVE byte stream into a Buffer. PCM16 and
// 32-bit float payloads are supported, which covers everything ffmpeg
// emits for us and everything clients are documented to send.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("wav: stream too short (%d bytes)", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wav: missing RIFF/WAVE header")
	}

	var (
		format     uint16
		channels   uint16
		rate       uint32
		bitsPerSmp uint16
		pcm        []byte
		haveFmt    bool
	)

	// Walk chunks; fmt normally precedes data but tolerate any order.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || body+size > len(data) {
			// Truncated chunk, take what is there.
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav: fmt chunk too short")
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			rate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSmp = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("wav: missing fmt chunk")
	}
	if pcm == nil {
		return nil, fmt.Errorf("wav: missing data chunk")
	}
	if channels == 0 || rate == 0 {
		return nil, fmt.Errorf("wav: invalid fmt (channels=%d rate=%d)", channels, rate)
	}

	switch {
	case format == wavFormatPCM && bitsPerSmp == 16:
		return decodePCM16(pcm, int(channels), int(rate)), nil
	case format == wavFormatFloat && bitsPerSmp == 32:
		return decodeFloat32(pcm, int(channels), int(rate)), nil
	default:
		return nil, fmt.Errorf("wav: unsupported format %d with %d bits per sample", format, bitsPerSmp)
	}
}

func decodePCM16(pcm []byte, channels, rate int) *Buffer {
	frames := len(pcm) / (2 * channels)
	chans := make([][]float64, channels)
	for c := range chans {
		chans[c] = make([]float64, frames)
	}
	for f := 0; f < frames; f++ {
		base := f * 2 * channels
		for c := 0; c < channels; c++ {
			s := int16(binary.LittleEndian.Uint16(pcm[base+2*c : base+2*c+2]))
			chans[c][f] = float64(s) / 32768.0
		}
	}
	return &Buffer{channels: chans, rate: rate}
}

func decodeFloat32(pcm []byte, channels, rate int) *Buffer {
	frames := len(pcm) / (4 * channels)
	chans := make([][]float64, channels)
	for c := range chans {
		chans[c] = make([]float64, frames)
	}
	for f := 0; f < frames; f++ {
		base := f * 4 * channels
		for c := 0; c < channels; c++ {
			bits := binary.LittleEndian.Uint32(pcm[base+4*c : base+4*c+4])
			chans[c][f] = float64(math.Float32frombits(bits))
		}
	}
	return &Buffer{channels: chans, rate: rate}
}

// EncodeWAV serializes the buffer as interleaved PCM16 WAV, the format
// every recognition backend we submit to accepts.
func EncodeWAV(b *Buffer) []byte {
	pcm := EncodePCM16(b)
	channels := b.Channels()
	if channels == 0 {
		channels = 1
	}
	rate := b.SampleRate()

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*channels*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))     // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// EncodePCM16 returns the raw interleaved little-endian PCM16 samples.
// Used for WAV bodies and for content-addressed hashing of buffers.
func EncodePCM16(b *Buffer) []byte {
	frames := b.Frames()
	channels := b.Channels()
	out := make([]byte, frames*channels*2)
	for f := 0; f < frames; f++ {
		base := f * channels * 2
		for c := 0; c < channels; c++ {
			s := b.channels[c][f]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			v := int16(math.Round(s * 32767))
			binary.LittleEndian.PutUint16(out[base+2*c:base+2*c+2], uint16(v))
		}
	}
	return out
}
