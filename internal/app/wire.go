//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"dualscribe/internal/api/server"
	"dualscribe/internal/app/batch"
	"dualscribe/internal/config"
)

func InitializeServer(cfg *config.Config) (*server.Server, func(), error) {
	wire.Build(
		provideZapLogger,
		provideSlogLogger,
		provideOpenAIClient,
		provideRegistry,
		provideDiarizers,
		provideAligner,
		provideSessionManager,
		provideDAO,
		provideObjectStore,
		provideSynthesizer,
		provideContainer,
		provideServerConfig,
		server.NewServer,
	)
	return nil, nil, nil
}

func InitializeBatchRunner(cfg *config.Config, progress batch.ProgressConfig) (*batch.Runner, func(), error) {
	wire.Build(
		provideZapLogger,
		provideOpenAIClient,
		provideRegistry,
		provideDAO,
		batch.NewRunner,
	)
	return nil, nil, nil
}
