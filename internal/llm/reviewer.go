package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
)

type reviewer struct {
	generator Generator
	prompts   *PromptManager
	provider  ModelProvider
	rules     []ReviewRule
	timeout   time.Duration
	logger    *slog.Logger
}

// NewReviewer returns a core.ReviewGenerator that renders the review prompt
// for the configured provider and asks generator for the review, giving up
// after cfg.Timeout.
func NewReviewer(generator Generator, prompts *PromptManager, cfg config.AIConfig, logger *slog.Logger) core.ReviewGenerator {
	return &reviewer{
		generator: generator,
		prompts:   prompts,
		provider:  ModelProvider(cfg.LLMProvider),
		rules:     DefaultReviewRules,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

func (r *reviewer) GenerateReview(ctx context.Context, diff string) (string, error) {
	prompt, err := r.prompts.Render(CodeReviewPrompt, r.provider, ReviewPromptData{Rules: r.rules, Diff: diff})
	if err != nil {
		return "", fmt.Errorf("failed to render review prompt: %w", err)
	}

	start := time.Now()
	resp, err := r.generateWithTimeout(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("review generation failed: %w", err)
	}
	r.logger.Debug("review generated", "duration_ms", time.Since(start).Milliseconds(), "length", len(resp))
	return resp, nil
}

// generateWithTimeout wraps generation with a hard timeout so a client that
// ignores cancellation cannot hold up the pipeline.
func (r *reviewer) generateWithTimeout(ctx context.Context, prompt string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := r.generator.Generate(ctx, prompt)
		resultCh <- result{resp, err}
	}()

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
