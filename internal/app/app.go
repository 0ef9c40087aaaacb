// Package app holds the running webhook service: the HTTP server and the
// resources that must be released when it stops.
package app

import (
	"log/slog"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/server"
)

// App holds the main application components.
type App struct {
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
}

// NewApp bundles the already wired server with its configuration.
func NewApp(cfg *config.Config, srv *server.Server, logger *slog.Logger) *App {
	logger.Info("pr-warden initialized",
		"llm_provider", cfg.AI.LLMProvider,
		"model", cfg.AI.Model,
		"store_driver", cfg.Store.Driver,
		"precheck_go_version", cfg.Precheck.GoVersion)

	return &App{
		cfg:    cfg,
		server: srv,
		logger: logger,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting pr-warden", "server_port", a.cfg.Server.Port)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts the HTTP server down, letting in-flight deliveries finish.
// Store connections are closed by the cleanup returned from wiring.
func (a *App) Stop() error {
	a.logger.Info("shutting down pr-warden")

	if err := a.server.Stop(); err != nil {
		a.logger.Error("pr-warden stopped with errors", "error", err)
		return err
	}

	a.logger.Info("pr-warden stopped successfully")
	return nil
}
