// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/pr-warden/internal/app"
	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/jobs"
	"github.com/sevigo/pr-warden/internal/llm"
	"github.com/sevigo/pr-warden/internal/precheck"
	"github.com/sevigo/pr-warden/internal/server"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	loggerConfig := provideLoggerConfig(cfg)
	logWriter := provideLogWriter(loggerConfig)
	slogLogger := provideSlogLogger(loggerConfig, logWriter)

	// Idempotency store
	storeConfig := provideStoreConfig(cfg)
	tracker, cleanup, err := provideTracker(ctx, storeConfig, slogLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create revision tracker: %w", err)
	}

	// GitHub App
	githubConfig := provideGitHubConfig(cfg)
	clientFactory, err := provideClientFactory(githubConfig, slogLogger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create GitHub client factory: %w", err)
	}

	// Syntax pre-check
	precheckConfig := providePrecheckConfig(cfg)
	checker := precheck.NewChecker(precheckConfig, slogLogger)

	// Model
	aiConfig := provideAIConfig(cfg)
	generator, err := provideGenerator(ctx, aiConfig, slogLogger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}
	promptManager, err := llm.NewPromptManager()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}
	reviewGenerator := llm.NewReviewer(generator, promptManager, aiConfig, slogLogger)

	// Review pipeline and server
	job := jobs.NewReviewJob(cfg, clientFactory, tracker, checker, reviewGenerator, slogLogger)
	httpServer := server.NewServer(cfg, job, slogLogger)
	application := app.NewApp(cfg, httpServer, slogLogger)

	return application, func() {
		cleanup()
	}, nil
}
