package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dualscribe/internal/api/v1/dto"
	"dualscribe/internal/app/align"
	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/diarize"
	apperrors "dualscribe/internal/app/errors"
	"dualscribe/internal/app/metrics"
	"dualscribe/internal/app/model"
	"dualscribe/internal/app/pipeline"
	"dualscribe/internal/app/repository"
	"dualscribe/internal/app/session"
	"dualscribe/internal/app/storage"
	"dualscribe/internal/config"
)

// DefaultASRService wires the recognition pipeline to its collaborators:
// decoding, diarization (with fallbacks), alignment replay, persistence,
// and artifact storage.
type DefaultASRService struct {
	cfg       config.ASRConfig
	registry  *asr.Registry
	diarizers []diarize.Diarizer
	aligner   align.Aligner
	sessions  *session.Manager
	dao       repository.TranscriptDAO
	store     storage.ObjectStore
	logger    *zap.Logger
}

// NewASRService builds the service. diarizers are tried in order until
// one yields intervals; aligner and store may be nil when the deployment
// does not configure them.
func NewASRService(
	cfg config.ASRConfig,
	registry *asr.Registry,
	diarizers []diarize.Diarizer,
	aligner align.Aligner,
	sessions *session.Manager,
	dao repository.TranscriptDAO,
	store storage.ObjectStore,
	logger *zap.Logger,
) *DefaultASRService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultASRService{
		cfg:       cfg,
		registry:  registry,
		diarizers: diarizers,
		aligner:   aligner,
		sessions:  sessions,
		dao:       dao,
		store:     store,
		logger:    logger,
	}
}

// Recognize decodes the payload, chooses intervals per mode, runs the
// pipeline, and persists the trace. Only no-audio and no-segment
// conditions surface as errors; degraded segments ride along as statuses.
func (s *DefaultASRService) Recognize(ctx context.Context, input RecognizeInput) (*dto.ASRResult, error) {
	if input.RequestID == "" {
		input.RequestID = uuid.New().String()
	}
	language := input.Language
	if language == "" {
		language = s.cfg.Language
	}

	buf, err := audio.Decode(ctx, input.Audio, input.Format)
	if err != nil {
		s.logger.Warn("audio decode failed",
			zap.String("request_id", input.RequestID),
			zap.String("format", input.Format),
			zap.Error(err))
		metrics.RequestsTotal.WithLabelValues(input.Mode, "no_audio").Inc()
		return nil, apperrors.Wrap(apperrors.ErrNoAudio, err.Error())
	}

	sess, err := s.sessions.Create()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if _, err := sess.SaveAudio("input.wav", audio.EncodeWAV(buf)); err != nil {
		s.logger.Warn("failed to persist input audio", zap.Error(err))
	}

	recognize, err := s.recognizer()
	if err != nil {
		return nil, err
	}

	intervals, selector, err := s.intervalsFor(ctx, input.Mode, buf, sess)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(input.Mode, "error").Inc()
		return nil, err
	}

	p := pipeline.New(pipeline.Config{
		Language:           language,
		MinSegmentDuration: s.cfg.MinSegmentDuration,
		SegmentWorkers:     s.cfg.SegmentWorkers,
		SegmentTimeout:     s.cfg.SegmentTimeout.Std(),
		SegmentRetries:     s.cfg.SegmentRetries,
		ExpectedSpeakers:   s.cfg.NumSpeakers,
	}, s.logger)

	transcript, err := p.Run(ctx, buf, intervals, recognize, selector)
	if err != nil && input.Mode == dto.ModeDiarized && errors.Is(err, apperrors.ErrNoSegments) {
		// Degraded diarization: fall back to recognizing the whole
		// recording as a single segment rather than failing the request.
		s.logger.Warn("diarization left no usable segments, falling back to whole recording",
			zap.String("request_id", input.RequestID))
		transcript, err = p.Run(ctx, buf, wholeRecording(buf), recognize, nil)
	}
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(input.Mode, "error").Inc()
		s.record(input, sess, language, buf.Duration(), nil, err)
		return nil, err
	}

	s.observe(input.Mode, buf.Duration(), transcript)
	s.persistArtifacts(ctx, sess, transcript)
	s.record(input, sess, language, buf.Duration(), transcript, nil)

	return &dto.ASRResult{
		RequestID:   input.RequestID,
		SessionID:   sess.ID,
		Mode:        input.Mode,
		Language:    language,
		Duration:    buf.Duration(),
		Transcript:  transcript.Entries,
		Diagnostics: transcript.Diagnostics,
	}, nil
}

func (s *DefaultASRService) recognizer() (asr.Recognizer, error) {
	if s.cfg.Provider != "" {
		return s.registry.Get(s.cfg.Provider)
	}
	return s.registry.Default()
}

// intervalsFor chooses the segmentation source for a mode. split also
// returns a channel selector mapping each speaker tag to its channel.
func (s *DefaultASRService) intervalsFor(ctx context.Context, mode string, buf *audio.Buffer, sess *session.Session) ([]pipeline.RawInterval, pipeline.ChannelSelector, error) {
	switch mode {
	case dto.ModeCombined, "":
		return wholeRecording(buf), nil, nil

	case dto.ModeMono:
		// Single-channel fast path: take channel 0 as-is, skip mixdown.
		return wholeRecording(buf), func(pipeline.SanitizedSegment) int { return 0 }, nil

	case dto.ModeSplit:
		if buf.Channels() < 2 {
			s.logger.Warn("split mode on mono recording, treating as combined")
			return wholeRecording(buf), nil, nil
		}
		intervals := []pipeline.RawInterval{
			{Speaker: "0", Start: 0, End: buf.Duration(), Source: pipeline.SourceDiarization},
			{Speaker: "1", Start: 0, End: buf.Duration(), Source: pipeline.SourceDiarization},
		}
		selector := func(seg pipeline.SanitizedSegment) int {
			if seg.Speaker == "0" {
				return 0
			}
			return 1
		}
		return intervals, selector, nil

	case dto.ModeDiarized:
		intervals, err := s.diarize(ctx, buf)
		if err != nil {
			s.logger.Warn("all diarizers failed, treating recording as one segment", zap.Error(err))
			return wholeRecording(buf), nil, nil
		}
		if err := diarize.WriteSegments(sess.SegmentsPath(), intervals); err != nil {
			s.logger.Warn("failed to persist diarization segments", zap.Error(err))
		}
		return intervals, nil, nil

	case dto.ModeAligned:
		if s.aligner == nil {
			return nil, nil, apperrors.ErrNoAlignment
		}
		intervals, err := s.aligner.Align(ctx, buf, "")
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrNoAlignment, err.Error())
		}
		return intervals, nil, nil

	default:
		return nil, nil, apperrors.InvalidField("mode", mode)
	}
}

func (s *DefaultASRService) diarize(ctx context.Context, buf *audio.Buffer) ([]pipeline.RawInterval, error) {
	if len(s.diarizers) == 0 {
		return nil, apperrors.ErrNoDiarizer
	}
	var lastErr error
	for _, d := range s.diarizers {
		intervals, err := d.Diarize(ctx, buf)
		if err == nil && len(intervals) > 0 {
			return intervals, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = apperrors.ErrNoSegments
	}
	return nil, lastErr
}

func (s *DefaultASRService) observe(mode string, duration float64, transcript *pipeline.Transcript) {
	metrics.RequestsTotal.WithLabelValues(mode, "success").Inc()
	metrics.AudioSeconds.Add(duration)

	d := transcript.Diagnostics
	okCount := d.SegmentsTotal - d.SegmentsDropped - d.SegmentsClamped
	if okCount > 0 {
		metrics.SegmentsTotal.WithLabelValues("ok").Add(float64(okCount))
	}
	metrics.SegmentsTotal.WithLabelValues("clamped").Add(float64(d.SegmentsClamped))
	metrics.SegmentsTotal.WithLabelValues("dropped").Add(float64(d.SegmentsDropped))
	metrics.SegmentsTotal.WithLabelValues("failed").Add(float64(d.SegmentsFailed))
	metrics.SegmentsTotal.WithLabelValues("skipped").Add(float64(d.SegmentsSkipped))
}

func (s *DefaultASRService) persistArtifacts(ctx context.Context, sess *session.Session, transcript *pipeline.Transcript) {
	if _, err := sess.WriteResults(transcript); err != nil {
		s.logger.Warn("failed to write results artifact", zap.Error(err))
	}
	if _, err := sess.WriteSummary(transcript); err != nil {
		s.logger.Warn("failed to write summary artifact", zap.Error(err))
	}
	if s.store == nil {
		return
	}
	for _, name := range []string{"results.json", "summary.txt"} {
		data, err := readSessionFile(sess, name)
		if err != nil {
			continue
		}
		if _, err := s.store.PutArtifact(ctx, sess.ID, name, data, contentTypeFor(name)); err != nil {
			s.logger.Warn("artifact upload failed", zap.String("name", name), zap.Error(err))
		}
	}
}

func (s *DefaultASRService) record(input RecognizeInput, sess *session.Session, language string, duration float64, transcript *pipeline.Transcript, runErr error) {
	if s.dao == nil {
		return
	}
	record := &model.TranscriptRecord{
		RequestID:     input.RequestID,
		SessionID:     sess.ID,
		Mode:          input.Mode,
		Language:      language,
		AudioDuration: duration,
	}
	if transcript != nil {
		record.SegmentsTotal = transcript.Diagnostics.SegmentsTotal
		record.SegmentsDropped = transcript.Diagnostics.SegmentsDropped
		record.SegmentsClamped = transcript.Diagnostics.SegmentsClamped
		record.SegmentsFailed = transcript.Diagnostics.SegmentsFailed
		record.Transcript = transcript.Text()
	}
	if runErr != nil {
		record.ErrorMessage = runErr.Error()
	}
	if _, err := s.dao.Save(record); err != nil {
		s.logger.Warn("failed to record transcript", zap.Error(err))
	}
}

func wholeRecording(buf *audio.Buffer) []pipeline.RawInterval {
	return []pipeline.RawInterval{
		{Speaker: "0", Start: 0, End: buf.Duration(), Source: pipeline.SourceDiarization},
	}
}

func readSessionFile(sess *session.Session, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(sess.Dir, name))
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".wav":
		return "audio/wav"
	default:
		return "text/plain"
	}
}
