package diarize

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/pipeline"
)

const (
	energyFrameLen   = 0.025 // seconds
	energyHop        = 0.010
	energyThreshold  = 1.2 // multiple of median frame RMS
	energyMinSegment = 0.5 // seconds of continuous speech
)

// Energy is a dependency-free fallback diarizer. It finds speech regions
// by RMS energy against a median-derived threshold and attributes them to
// two alternating speakers. Crude, but it keeps the pipeline serving when
// the real diarization model is unreachable.
type Energy struct {
	logger *zap.Logger
}

func NewEnergy(logger *zap.Logger) *Energy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Energy{logger: logger}
}

func (e *Energy) Diarize(ctx context.Context, samples *audio.Buffer) ([]pipeline.RawInterval, error) {
	if samples.Empty() {
		return nil, fmt.Errorf("empty buffer")
	}
	mono := samples.Mixdown()
	rate := float64(mono.SampleRate())

	frameLen := int(energyFrameLen * rate)
	hop := int(energyHop * rate)
	if frameLen < 1 || hop < 1 {
		return nil, fmt.Errorf("sample rate %d too low for energy analysis", mono.SampleRate())
	}

	energies := frameEnergies(mono, frameLen, hop)
	if len(energies) == 0 {
		return e.halves(mono), nil
	}

	threshold := medianOf(energies) * energyThreshold

	var intervals []pipeline.RawInterval
	speaker := 0
	inSpeech := false
	var segStart float64
	for i, rms := range energies {
		t := float64(i*hop) / rate
		if rms >= threshold {
			if !inSpeech {
				inSpeech = true
				segStart = t
			}
			continue
		}
		if inSpeech {
			inSpeech = false
			end := t + energyFrameLen
			if end-segStart >= energyMinSegment {
				intervals = append(intervals, interval(speaker, segStart, end))
				speaker = 1 - speaker
			}
		}
	}
	if inSpeech {
		end := mono.Duration()
		if end-segStart >= energyMinSegment {
			intervals = append(intervals, interval(speaker, segStart, end))
		}
	}

	if len(intervals) == 0 {
		e.logger.Warn("no energy segments found, falling back to two halves",
			zap.Float64("duration", mono.Duration()))
		return e.halves(mono), nil
	}

	e.logger.Info("energy diarization produced segments", zap.Int("segments", len(intervals)))
	return intervals, nil
}

// halves splits the recording in two so downstream attribution still has
// something to work with when no speech stands out of the noise floor.
func (e *Energy) halves(mono *audio.Buffer) []pipeline.RawInterval {
	mid := mono.Duration() / 2
	return []pipeline.RawInterval{
		interval(0, 0, mid),
		interval(1, mid, mono.Duration()),
	}
}

func interval(speaker int, start, end float64) pipeline.RawInterval {
	return pipeline.RawInterval{
		Speaker: fmt.Sprintf("SPEAKER_%02d", speaker),
		Start:   start,
		End:     end,
		Source:  pipeline.SourceDiarization,
	}
}

func frameEnergies(mono *audio.Buffer, frameLen, hop int) []float64 {
	frames := mono.Frames()
	var energies []float64
	for start := 0; start+frameLen <= frames; start += hop {
		frame, _ := mono.Slice(start, start+frameLen)
		energies = append(energies, rms(frame))
	}
	return energies
}

func rms(frame *audio.Buffer) float64 {
	samples := frame.Samples(0)
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
