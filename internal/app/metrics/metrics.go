// Package metrics exposes Prometheus counters for the recognition service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts recognition requests by mode and outcome.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dualscribe",
		Name:      "asr_requests_total",
		Help:      "Recognition requests by mode and outcome.",
	}, []string{"mode", "outcome"})

	// SegmentsTotal counts segment dispositions across all requests.
	SegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dualscribe",
		Name:      "segments_total",
		Help:      "Segments by disposition: ok, clamped, dropped, failed, skipped.",
	}, []string{"disposition"})

	// SynthesisTotal counts text-to-speech requests by outcome.
	SynthesisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dualscribe",
		Name:      "tts_requests_total",
		Help:      "Synthesis requests by outcome.",
	}, []string{"outcome"})

	// AudioSeconds accumulates the duration of processed recordings.
	AudioSeconds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dualscribe",
		Name:      "audio_seconds_total",
		Help:      "Total seconds of audio processed.",
	})
)
