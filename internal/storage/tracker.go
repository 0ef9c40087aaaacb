// Package storage records which head revision of each pull request has
// already received a review.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/db"
)

// ErrUnsupportedDriver is returned when the store driver is unknown.
var ErrUnsupportedDriver = errors.New("unsupported store driver")

// Tracker answers whether a pull request revision still needs a review and
// remembers revisions once their review is posted. Only the latest revision
// per pull request is kept.
//
//go:generate mockgen -destination=../../mocks/mock_tracker.go -package=mocks . Tracker
type Tracker interface {
	// ShouldProcess reports whether rev differs from the last recorded
	// revision of the pull request. It never records anything.
	ShouldProcess(ctx context.Context, repo string, pr int, rev string) (bool, error)
	// MarkProcessed records rev as the latest handled revision.
	MarkProcessed(ctx context.Context, repo string, pr int, rev string) error
}

// NewTracker builds the tracker selected by cfg.Driver. The returned cleanup
// releases any connections and is always safe to call.
func NewTracker(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Tracker, func(), error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Info("using in-memory revision tracker")
		return NewMemoryTracker(), func() {}, nil
	case "redis":
		tracker, cleanup, err := NewRedisTracker(ctx, cfg.RedisURL)
		if err != nil {
			return nil, func() {}, err
		}
		logger.Info("using redis revision tracker")
		return tracker, cleanup, nil
	case db.DriverPostgres, db.DriverSQLite:
		conn, cleanup, err := db.NewDatabase(cfg)
		if err != nil {
			return nil, func() {}, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.Info("using sql revision tracker", "driver", conn.Driver())
		return NewSQLTracker(conn.DB), cleanup, nil
	default:
		return nil, func() {}, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}
