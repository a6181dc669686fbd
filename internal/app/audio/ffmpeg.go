package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"dualscribe/internal/app/model"
)

// ProbeDuration returns the duration of an audio file in seconds via ffprobe.
func ProbeDuration(filePath string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, err
	}
	return duration, nil
}

// IsPCM16Wav reports whether the file already holds pcm_s16le audio,
// in which case transcoding can be skipped.
func IsPCM16Wav(filePath string) (bool, error) {
	cmd := exec.Command("ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, err
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" {
			return true, nil
		}
	}
	return false, nil
}

// TranscodeToWAV runs ffmpeg over an in-memory compressed payload and
// returns a PCM16 WAV byte stream. format is the container hint for the
// input ("mp3", "m4a", "ogg", ...); rate 0 keeps the source sample rate,
// channels 0 keeps the source channel layout.
func TranscodeToWAV(ctx context.Context, data []byte, format string, rate, channels int) ([]byte, error) {
	args := []string{"-v", "error"}
	if format != "" {
		args = append(args, "-f", sanitizeFormat(format))
	}
	args = append(args, "-i", "pipe:0", "-vn", "-acodec", "pcm_s16le")
	if rate > 0 {
		args = append(args, "-ar", strconv.Itoa(rate))
	}
	if channels > 0 {
		args = append(args, "-ac", strconv.Itoa(channels))
	}
	args = append(args, "-f", "wav", "pipe:1")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg error: %v, stderr: %s", err, stderr.String())
	}

	out := stdout.Bytes()
	// ffmpeg writes a zero RIFF size when streaming to a pipe; patch it so
	// DecodeWAV and downstream consumers see a well-formed header.
	if len(out) > 8 && out[4] == 0 && out[5] == 0 && out[6] == 0 && out[7] == 0 {
		size := len(out) - 8
		out[4] = byte(size)
		out[5] = byte(size >> 8)
		out[6] = byte(size >> 16)
		out[7] = byte(size >> 24)
		patchDataChunkSize(out)
	}
	return out, nil
}

// Decode turns an uploaded payload into a Buffer. WAV bodies are decoded
// in-process; anything else goes through ffmpeg first.
func Decode(ctx context.Context, data []byte, format string) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}
	if isWAVHeader(data) {
		if buf, err := DecodeWAV(data); err == nil {
			return buf, nil
		}
		// Header looked like WAV but the payload did not parse; fall
		// through to ffmpeg which handles exotic WAV encodings.
	}
	wav, err := TranscodeToWAV(ctx, data, format, 0, 0)
	if err != nil {
		return nil, err
	}
	return DecodeWAV(wav)
}

func isWAVHeader(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func sanitizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	switch f {
	case "m4a", "mp4", "aac":
		return "mp4"
	case "oga":
		return "ogg"
	default:
		return f
	}
}

func patchDataChunkSize(out []byte) {
	// Locate the data chunk and fix its size field the same way.
	pos := 12
	for pos+8 <= len(out) {
		id := string(out[pos : pos+4])
		size := int(uint32(out[pos+4]) | uint32(out[pos+5])<<8 | uint32(out[pos+6])<<16 | uint32(out[pos+7])<<24)
		if id == "data" {
			actual := len(out) - pos - 8
			out[pos+4] = byte(actual)
			out[pos+5] = byte(actual >> 8)
			out[pos+6] = byte(actual >> 16)
			out[pos+7] = byte(actual >> 24)
			return
		}
		pos += 8 + size
		if size%2 == 1 {
			pos++
		}
	}
}

// RoundDuration rounds a duration to whole seconds for display and storage.
func RoundDuration(seconds float64) int {
	return int(math.Round(seconds))
}
