package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type sqlTracker struct {
	db *sqlx.DB
}

// NewSQLTracker returns a Tracker backed by the processed_revisions table.
// The queries work on both postgres and sqlite.
func NewSQLTracker(db *sqlx.DB) Tracker {
	return &sqlTracker{db: db}
}

func (t *sqlTracker) ShouldProcess(ctx context.Context, repo string, pr int, rev string) (bool, error) {
	query := t.db.Rebind(`SELECT head_sha FROM processed_revisions WHERE repo_full_name = ? AND pr_number = ?`)

	var last string
	err := t.db.GetContext(ctx, &last, query, repo, pr)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read processed revision: %w", err)
	}
	return last != rev, nil
}

func (t *sqlTracker) MarkProcessed(ctx context.Context, repo string, pr int, rev string) error {
	query := t.db.Rebind(`
		INSERT INTO processed_revisions (repo_full_name, pr_number, head_sha, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (repo_full_name, pr_number)
		DO UPDATE SET head_sha = excluded.head_sha, updated_at = excluded.updated_at`)

	if _, err := t.db.ExecContext(ctx, query, repo, pr, rev, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record processed revision: %w", err)
	}
	return nil
}
