// Package app assembles the service from its parts.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	v1routes "dualscribe/internal/api/v1/routes"
	"dualscribe/internal/api/server"
	"dualscribe/internal/api/v1/services"
	"dualscribe/internal/app/align"
	"dualscribe/internal/app/asr"
	"dualscribe/internal/app/asr/googlespeech"
	"dualscribe/internal/app/asr/whisper"
	"dualscribe/internal/app/diarize"
	"dualscribe/internal/app/repository"
	"dualscribe/internal/app/repository/pg"
	"dualscribe/internal/app/repository/sqlite"
	"dualscribe/internal/app/session"
	"dualscribe/internal/app/storage"
	"dualscribe/internal/app/tts"
	"dualscribe/internal/app/tts/openaispeech"
	"dualscribe/internal/config"
)

func provideZapLogger() (*zap.Logger, func(), error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideSlogLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func provideOpenAIClient() (*openai.Client, error) {
	keys, err := config.GetAPIKeys()
	if err != nil {
		return nil, err
	}
	if keys.OpenAI == "" {
		return nil, nil
	}
	return openai.NewClient(keys.OpenAI), nil
}

// provideRegistry registers every recognizer the environment supports.
// OpenAI needs OPENAI_API_KEY; Google Cloud Speech needs application
// default credentials.
func provideRegistry(cfg *config.Config, client *openai.Client, logger *zap.Logger) (*asr.Registry, func(), error) {
	registry := asr.NewRegistry()
	cleanup := func() {}

	if client != nil {
		if err := registry.Register("whisper", whisper.New(client, cfg.ASR.Model)); err != nil {
			return nil, nil, err
		}
	}

	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		google, err := googlespeech.NewFromEnv(context.Background())
		if err != nil {
			logger.Warn("google speech unavailable", zap.Error(err))
		} else {
			if err := registry.Register("google", google); err != nil {
				return nil, nil, err
			}
			cleanup = func() { _ = google.Close() }
		}
	}

	if len(registry.List()) == 0 {
		return nil, nil, fmt.Errorf("no recognizer available: set OPENAI_API_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}
	if cfg.ASR.Provider != "" {
		if err := registry.SetDefault(cfg.ASR.Provider); err != nil {
			logger.Warn("configured provider not available, keeping default",
				zap.String("provider", cfg.ASR.Provider))
		}
	}
	return registry, cleanup, nil
}

// provideDiarizers builds the diarizer chain: a replayed segments file
// when configured, wrapped in the redis cache when enabled, then the
// energy fallback.
func provideDiarizers(cfg *config.Config, logger *zap.Logger) []diarize.Diarizer {
	var chain []diarize.Diarizer

	if cfg.Diarization.SegmentsFile != "" {
		var primary diarize.Diarizer = diarize.NewSegmentsFile(cfg.Diarization.SegmentsFile)
		if cfg.Cache.Enabled {
			client := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr})
			primary = diarize.NewCached(primary, client, cfg.Cache.TTL.Std(), logger)
		}
		chain = append(chain, primary)
	}

	if cfg.Diarization.UseEnergy {
		chain = append(chain, diarize.NewEnergy(logger))
	}
	return chain
}

func provideAligner(cfg *config.Config) align.Aligner {
	if cfg.Alignment.ResultFile == "" {
		return nil
	}
	return align.NewResultFile(cfg.Alignment.ResultFile)
}

func provideSessionManager(cfg *config.Config, logger *zap.Logger) (*session.Manager, func()) {
	manager := session.NewManager(cfg.Session.BaseDir, cfg.Session.Retention.Std(), logger)
	stop := make(chan struct{})
	interval := cfg.Session.CleanupInterval.Std()
	if interval <= 0 {
		interval = time.Hour
	}
	manager.StartCleanupLoop(interval, stop)
	return manager, func() { close(stop) }
}

func provideDAO(cfg *config.Config) (repository.TranscriptDAO, func(), error) {
	var (
		dao repository.TranscriptDAO
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		dao, err = pg.NewPostgresDAO(cfg.Database.PostgresDS)
	default:
		dao, err = sqlite.NewSQLiteDAO(cfg.Database.SQLitePath)
	}
	if err != nil {
		return nil, nil, err
	}
	return dao, func() { _ = dao.Close() }, nil
}

func provideObjectStore(cfg *config.Config, logger *zap.Logger) storage.ObjectStore {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.NewMinioStore(context.Background(), storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	}, logger)
	if err != nil {
		logger.Warn("object storage unavailable, artifacts stay local", zap.Error(err))
		return nil
	}
	return store
}

func provideSynthesizer(cfg *config.Config, client *openai.Client) tts.Synthesizer {
	if client == nil {
		return nil
	}
	return openaispeech.New(client, cfg.TTS.Model)
}

func provideContainer(
	cfg *config.Config,
	registry *asr.Registry,
	diarizers []diarize.Diarizer,
	aligner align.Aligner,
	sessions *session.Manager,
	dao repository.TranscriptDAO,
	store storage.ObjectStore,
	synthesizer tts.Synthesizer,
	logger *zap.Logger,
) *v1routes.ServiceContainer {
	container := &v1routes.ServiceContainer{
		ASRService: services.NewASRService(cfg.ASR, registry, diarizers, aligner, sessions, dao, store, logger),
	}
	if synthesizer != nil {
		container.TTSService = services.NewTTSService(cfg.TTS, synthesizer, logger)
	}
	if dao != nil {
		container.TranscriptService = services.NewTranscriptService(dao)
	}
	return container
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
		Environment:  os.Getenv("DUALSCRIBE_ENV"),
	}
}
