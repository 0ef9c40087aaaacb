package wire

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/pr-warden/internal/app"
	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/internal/jobs"
	"github.com/sevigo/pr-warden/internal/llm"
	"github.com/sevigo/pr-warden/internal/logger"
	"github.com/sevigo/pr-warden/internal/precheck"
	"github.com/sevigo/pr-warden/internal/server"
	"github.com/sevigo/pr-warden/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	jobs.NewReviewJob,
	precheck.NewChecker,
	llm.NewPromptManager,
	llm.NewReviewer,
	provideLoggerConfig,
	provideLogWriter,
	provideSlogLogger,
	provideGitHubConfig,
	provideAIConfig,
	providePrecheckConfig,
	provideStoreConfig,
	provideClientFactory,
	provideTracker,
	provideGenerator,
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.LoggerConfig
}

func provideLogWriter(cfg logger.Config) io.Writer {
	return logger.ResolveOutput(cfg.Output)
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}

func provideGitHubConfig(cfg *config.Config) config.GitHubConfig {
	return cfg.GitHub
}

func provideAIConfig(cfg *config.Config) config.AIConfig {
	return cfg.AI
}

func providePrecheckConfig(cfg *config.Config) config.PrecheckConfig {
	return cfg.Precheck
}

func provideStoreConfig(cfg *config.Config) config.StoreConfig {
	return cfg.Store
}

func provideClientFactory(cfg config.GitHubConfig, logger *slog.Logger) (github.ClientFactory, error) {
	return github.NewAppClientFactory(cfg, logger)
}

func provideTracker(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (storage.Tracker, func(), error) {
	return storage.NewTracker(ctx, cfg, logger)
}

func provideGenerator(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (llm.Generator, error) {
	return llm.NewGenerator(ctx, cfg, logger)
}

