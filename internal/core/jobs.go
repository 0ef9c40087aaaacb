package core

import (
	"context"
)

// Job represents a single, executable unit of work triggered by a webhook event.
type Job interface {
	// Run executes the job's logic for one event. The returned Outcome is never nil
	// when the event passed input validation; the error is non-nil only for
	// terminal failures (no diff available, review could not be posted).
	Run(ctx context.Context, event *WebhookEvent) (*Outcome, error)
}

// ReviewGenerator turns a unified diff into raw review text produced by a model.
//
//go:generate mockgen -destination=../../mocks/mock_review_generator.go -package=mocks . ReviewGenerator
type ReviewGenerator interface {
	GenerateReview(ctx context.Context, diff string) (string, error)
}
