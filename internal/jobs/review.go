// Package jobs defines the work triggered by webhook deliveries.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/internal/llm"
	"github.com/sevigo/pr-warden/internal/logger"
	"github.com/sevigo/pr-warden/internal/precheck"
	"github.com/sevigo/pr-warden/internal/storage"
)

var (
	// ErrDiffUnavailable aborts a run: no review is possible without the diff.
	ErrDiffUnavailable = errors.New("pull request diff unavailable")
	// ErrPostFailed means the review was built but GitHub did not accept it.
	ErrPostFailed = errors.New("failed to post review")
)

// ReviewJob runs the review pipeline for one pull request event: tracker gate,
// syntax pre-check and diff fetch in parallel, model review, merge and post.
type ReviewJob struct {
	cfg      *config.Config
	clients  github.ClientFactory
	tracker  storage.Tracker
	checker  *precheck.Checker
	reviewer core.ReviewGenerator
	logger   *slog.Logger
}

// NewReviewJob creates a ReviewJob. It panics on missing collaborators since
// they are wired once at startup.
func NewReviewJob(cfg *config.Config, clients github.ClientFactory, tracker storage.Tracker, checker *precheck.Checker, reviewer core.ReviewGenerator, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if clients == nil || tracker == nil || checker == nil || reviewer == nil {
		panic("review job collaborators cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{
		cfg:      cfg,
		clients:  clients,
		tracker:  tracker,
		checker:  checker,
		reviewer: reviewer,
		logger:   logger,
	}
}

// Run executes the pipeline. The returned error is non-nil only when the
// event is invalid, the installation client cannot be created, the diff is
// unavailable or the review could not be posted; every other problem is
// reported as a warning on the Outcome.
func (j *ReviewJob) Run(ctx context.Context, event *core.WebhookEvent) (*core.Outcome, error) {
	if err := validateEvent(event); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	log := logger.ForEvent(j.logger, event.RepoFullName, event.PRNumber, event.HeadSHA, event.DeliveryID)
	outcome := &core.Outcome{}
	outcome.Advance(core.StateVerified)

	if !event.Action.Monitored() {
		return j.skip(log, outcome, fmt.Sprintf("action %q is not monitored", event.RawAction)), nil
	}

	shouldProcess, err := j.tracker.ShouldProcess(ctx, event.RepoFullName, event.PRNumber, event.HeadSHA)
	switch {
	case err != nil:
		j.warn(log, outcome, fmt.Sprintf("revision tracker unavailable, reviewing anyway: %v", err))
	case !shouldProcess:
		return j.skip(log, outcome, fmt.Sprintf("revision %s already reviewed", event.ShortSHA())), nil
	}

	log.Info("starting review", "action", event.RawAction)

	client, err := j.clients.ForInstallation(ctx, event.InstallationID)
	if err != nil {
		return j.fail(log, outcome, "could not authenticate installation", fmt.Errorf("failed to create GitHub client: %w", err))
	}

	repoCfg := j.loadRepoConfig(ctx, client, event)
	j.absorb(log, outcome, repoCfg.Warnings)
	if repoCfg.Value.Disabled {
		return j.skip(log, outcome, "reviews disabled by repository config"), nil
	}

	files := j.listFiles(ctx, client, event)
	j.absorb(log, outcome, files.Warnings)
	outcome.Advance(core.StateFilesFetched)

	var (
		syntax core.Result[[]core.SyntaxIssue]
		diff   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		syntax = j.checkFiles(gctx, client, event, files.Value, repoCfg.Value)
		return nil
	})
	g.Go(func() error {
		fetchCtx, cancel := withTimeout(gctx, j.cfg.GitHub.DiffTimeout)
		defer cancel()
		d, err := client.GetPullRequestDiff(fetchCtx, event.RepoOwner, event.RepoName, event.PRNumber)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDiffUnavailable, err)
		}
		diff = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return j.fail(log, outcome, "diff unavailable", err)
	}
	j.absorb(log, outcome, syntax.Warnings)
	outcome.SyntaxCount = len(syntax.Value)
	outcome.Advance(core.StateSyntaxChecked)
	outcome.Advance(core.StateDiffFetched)

	review := j.generateReview(ctx, log, diff)
	j.absorb(log, outcome, review.Warnings)
	outcome.Advance(core.StateReviewGenerated)

	var comment *core.Comment
	if review.Value != nil {
		comment = llm.BuildComment(review.Value)
	}
	comment = llm.MergeSyntaxIssues(comment, syntax.Value)
	outcome.Advance(core.StateMerged)

	if comment == nil {
		outcome.Advance(core.StateNoAction)
		outcome.Reason = "nothing to post"
		log.Info("review finished without output", "warnings", len(outcome.Warnings))
		return outcome, nil
	}

	postCtx, cancel := withTimeout(ctx, j.cfg.GitHub.Timeout)
	defer cancel()
	err = client.CreateReview(postCtx, event.RepoOwner, event.RepoName, event.PRNumber, event.HeadSHA, comment.Body(), comment.Disposition)
	if err != nil {
		return j.fail(log, outcome, "review not posted", fmt.Errorf("%w: %w", ErrPostFailed, err))
	}
	outcome.Advance(core.StatePosted)
	outcome.Disposition = comment.Disposition

	if err := j.tracker.MarkProcessed(ctx, event.RepoFullName, event.PRNumber, event.HeadSHA); err != nil {
		j.warn(log, outcome, fmt.Sprintf("review posted but revision not recorded: %v", err))
		return outcome, nil
	}
	outcome.Advance(core.StateCommitted)

	log.Info("review posted",
		"disposition", comment.Disposition,
		"syntax_issues", outcome.SyntaxCount,
		"warnings", len(outcome.Warnings),
	)
	return outcome, nil
}

// loadRepoConfig reads the repository config at the head revision. A missing
// file means defaults; any other problem is a warning and also means defaults.
func (j *ReviewJob) loadRepoConfig(ctx context.Context, client github.Client, event *core.WebhookEvent) core.Result[*core.RepoConfig] {
	result := core.Result[*core.RepoConfig]{Value: core.DefaultRepoConfig()}
	name := j.cfg.GitHub.RepoConfigFile
	if name == "" {
		return result
	}

	fetchCtx, cancel := withTimeout(ctx, j.cfg.GitHub.Timeout)
	defer cancel()
	data, err := client.GetFileContent(fetchCtx, event.RepoOwner, event.RepoName, name, event.HeadSHA)
	if errors.Is(err, github.ErrNotFound) {
		return result
	}
	if err != nil {
		result.Warn("could not load %s, using defaults: %v", name, err)
		return result
	}

	repoCfg, err := config.ParseRepoConfig(data)
	if err != nil {
		result.Warn("ignoring invalid %s: %v", name, err)
		return result
	}
	result.Value = repoCfg
	return result
}

func (j *ReviewJob) listFiles(ctx context.Context, client github.Client, event *core.WebhookEvent) core.Result[[]github.ChangedFile] {
	var result core.Result[[]github.ChangedFile]
	fetchCtx, cancel := withTimeout(ctx, j.cfg.GitHub.Timeout)
	defer cancel()

	files, err := client.ListChangedFiles(fetchCtx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		result.Warn("could not list changed files, syntax check skipped: %v", err)
		return result
	}
	result.Value = files
	return result
}

// checkFiles fetches every matching file at the head revision and runs the
// pre-checker on it with bounded concurrency. A file that cannot be fetched is
// left out with a warning. Issues keep the order of the changed files.
func (j *ReviewJob) checkFiles(ctx context.Context, client github.Client, event *core.WebhookEvent, files []github.ChangedFile, repoCfg *core.RepoConfig) core.Result[[]core.SyntaxIssue] {
	var result core.Result[[]core.SyntaxIssue]
	if repoCfg.SkipSyntaxCheck {
		return result
	}

	var targets []string
	for _, f := range files {
		if f.Status == github.FileStatusRemoved {
			continue
		}
		if j.checker.Matches(f.Filename, repoCfg.ExcludePaths...) {
			targets = append(targets, f.Filename)
		}
	}

	issues := make([][]core.SyntaxIssue, len(targets))
	failures := make([]error, len(targets))

	var g errgroup.Group
	g.SetLimit(max(1, j.cfg.Precheck.MaxConcurrency))
	for i, path := range targets {
		g.Go(func() error {
			fetchCtx, cancel := withTimeout(ctx, j.cfg.GitHub.Timeout)
			defer cancel()
			content, err := client.GetFileContent(fetchCtx, event.RepoOwner, event.RepoName, path, event.HeadSHA)
			if err != nil {
				failures[i] = err
				return nil
			}
			issues[i] = j.checker.CheckFile(path, content)
			return nil
		})
	}
	_ = g.Wait()

	for i, path := range targets {
		if failures[i] != nil {
			result.Warn("skipped syntax check of %s: %v", path, failures[i])
			continue
		}
		result.Value = append(result.Value, issues[i]...)
	}
	return result
}

// generateReview asks the model for a review and parses it. Any failure
// leaves the value nil.
func (j *ReviewJob) generateReview(ctx context.Context, log *slog.Logger, diff string) core.Result[*core.StructuredReview] {
	var result core.Result[*core.StructuredReview]
	if diff == "" {
		result.Warn("diff is empty, model review skipped")
		return result
	}

	start := time.Now()
	raw, err := j.reviewer.GenerateReview(ctx, diff)
	if err != nil {
		result.Warn("model review unavailable: %v", err)
		return result
	}
	log.Debug("model review received", "duration_ms", time.Since(start).Milliseconds())

	review, err := llm.ParseReview(raw)
	if err != nil {
		result.Warn("model output discarded: %v", err)
		return result
	}
	result.Value = review
	return result
}

func (j *ReviewJob) skip(log *slog.Logger, outcome *core.Outcome, reason string) *core.Outcome {
	outcome.Advance(core.StateSkipped)
	outcome.Reason = reason
	log.Info("skipping review", "reason", reason)
	return outcome
}

func (j *ReviewJob) fail(log *slog.Logger, outcome *core.Outcome, reason string, err error) (*core.Outcome, error) {
	outcome.Advance(core.StateFailed)
	outcome.Reason = reason
	log.Error("review failed", "reason", reason, "error", err)
	return outcome, err
}

func (j *ReviewJob) warn(log *slog.Logger, outcome *core.Outcome, warning string) {
	log.Warn(warning)
	outcome.Absorb([]string{warning})
}

func (j *ReviewJob) absorb(log *slog.Logger, outcome *core.Outcome, warnings []string) {
	for _, w := range warnings {
		j.warn(log, outcome, w)
	}
}

// withTimeout applies d to ctx unless d is not positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
