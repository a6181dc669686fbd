// Package batch transcribes local audio files in parallel from the CLI,
// reusing the same pipeline the HTTP service runs.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/audio"
	"dualscribe/internal/app/model"
	"dualscribe/internal/app/pipeline"
	"dualscribe/internal/app/repository"
	"dualscribe/internal/config"
)

// Runner transcribes files one recording per pipeline run. Each file is
// treated as a single combined-mode segment.
type Runner struct {
	cfg      *config.Config
	registry *asr.Registry
	dao      repository.TranscriptDAO
	progress *ProgressManager
	logger   *zap.Logger
}

func NewRunner(cfg *config.Config, registry *asr.Registry, dao repository.TranscriptDAO, progress ProgressConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		registry: registry,
		dao:      dao,
		progress: NewProgressManager(progress),
		logger:   logger,
	}
}

func (r *Runner) Close() error {
	if r.progress != nil {
		r.progress.Shutdown()
	}
	return nil
}

// ProcessDir transcribes every file in dir with the given extension,
// writing one .txt per recording into outputDir. Files whose output
// already exists are skipped.
func (r *Runner) ProcessDir(ctx context.Context, dir, extension, outputDir, language string, parallel int) error {
	paths, err := listFiles(dir, extension)
	if err != nil {
		return err
	}

	toProcess := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(outputPath(outputDir, path)); err == nil {
			r.logger.Info("already transcribed, skipping", zap.String("file", filepath.Base(path)))
			continue
		}
		toProcess = append(toProcess, path)
	}
	return r.ProcessFiles(ctx, toProcess, outputDir, language, parallel)
}

// ProcessFiles transcribes the given files with bounded parallelism.
// Per-file failures are logged and recorded; they do not stop the batch.
func (r *Runner) ProcessFiles(ctx context.Context, paths []string, outputDir, language string, parallel int) error {
	if len(paths) == 0 {
		return nil
	}
	if parallel < 1 {
		parallel = 1
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	bar := r.progress.CreateBar(len(paths), "Transcribing")
	defer r.progress.Wait()

	var wg sync.WaitGroup
	sem := make(chan struct{}, parallel)

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer bar.Increment()

			sem <- struct{}{}
			err := r.processFile(ctx, path, outputDir, language)
			<-sem

			if err != nil {
				r.logger.Warn("transcription failed",
					zap.String("file", filepath.Base(path)),
					zap.Error(err))
			}
		}(path)
	}
	wg.Wait()
	bar.Complete()
	return nil
}

func (r *Runner) processFile(ctx context.Context, path, outputDir, language string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	buf, err := audio.Decode(ctx, data, format)
	if err != nil {
		r.record(path, language, 0, "", err)
		return fmt.Errorf("decode %s: %w", path, err)
	}

	recognize, err := r.registry.Default()
	if err != nil {
		return err
	}

	if language == "" {
		language = r.cfg.ASR.Language
	}
	p := pipeline.New(pipeline.Config{
		Language:           language,
		MinSegmentDuration: r.cfg.ASR.MinSegmentDuration,
		SegmentWorkers:     1,
		SegmentTimeout:     r.cfg.ASR.SegmentTimeout.Std(),
		SegmentRetries:     r.cfg.ASR.SegmentRetries,
	}, r.logger)

	intervals := []pipeline.RawInterval{
		{Speaker: "0", Start: 0, End: buf.Duration(), Source: pipeline.SourceDiarization},
	}
	transcript, err := p.Run(ctx, buf, intervals, recognize, nil)
	if err != nil {
		r.record(path, language, buf.Duration(), "", err)
		return err
	}

	text := transcript.Text()
	if err := os.WriteFile(outputPath(outputDir, path), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	r.record(path, language, buf.Duration(), text, nil)
	r.logger.Info("transcribed",
		zap.String("file", filepath.Base(path)),
		zap.Float64("duration", buf.Duration()))
	return nil
}

func (r *Runner) record(path, language string, duration float64, text string, runErr error) {
	if r.dao == nil {
		return
	}
	record := &model.TranscriptRecord{
		RequestID:     filepath.Base(path),
		Mode:          "batch",
		Language:      language,
		AudioDuration: duration,
		SegmentsTotal: 1,
		Transcript:    text,
	}
	if runErr != nil {
		record.ErrorMessage = runErr.Error()
	}
	if _, err := r.dao.Save(record); err != nil {
		r.logger.Warn("failed to record transcript", zap.Error(err))
	}
}

func outputPath(outputDir, inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	return filepath.Join(outputDir, name)
}

// listFiles returns the files in dir with the extension, oldest first so
// interrupted batches resume where they left off.
func listFiles(dir, extension string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	type fileWithTime struct {
		path    string
		modTime int64
	}
	files := make([]fileWithTime, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileWithTime{
			path:    filepath.Join(dir, entry.Name()),
			modTime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime < files[j].modTime })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}
