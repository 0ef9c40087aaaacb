package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/internal/jobs"
	"github.com/sevigo/pr-warden/internal/llm"
	"github.com/sevigo/pr-warden/internal/precheck"
	"github.com/sevigo/pr-warden/internal/storage"
)

// localInstallationID stands in for the app installation: the PAT factory
// ignores it, but the pipeline requires a positive ID.
const localInstallationID int64 = 1

var reviewPost bool

var reviewCmd = &cobra.Command{
	Use:   "review <owner/repo> <number> | review <pr-url>",
	Short: "Run the review pipeline for a GitHub Pull Request",
	Long: `Run the full review pipeline for a GitHub Pull Request with a personal access token.

The command pre-checks the changed Go files, asks the model for a review of the
diff and prints the resulting comment. Nothing is posted unless --post is given.

Examples:
  warden-cli review octo/app 123
  warden-cli review https://github.com/octo/app/pull/123
  warden-cli review --post --verbose octo/app#123`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVar(&reviewPost, "post", false, "Post the review to the pull request")
	rootCmd.AddCommand(reviewCmd)
}

// dryRunClient records the review instead of posting it.
type dryRunClient struct {
	github.Client

	body        string
	disposition core.Disposition
}

func (d *dryRunClient) CreateReview(_ context.Context, _, _ string, _ int, _, body string, disposition core.Disposition) error {
	d.body = body
	d.disposition = disposition
	return nil
}

// parseTarget accepts either a single pull request URL or owner/repo#number,
// or the repository and number as two arguments.
func parseTarget(args []string) (github.PullRequestRef, error) {
	if len(args) == 2 {
		return github.ParsePullRequestRef(args[0] + "#" + args[1])
	}
	return github.ParsePullRequestRef(args[0])
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ref, err := parseTarget(args)
	if err != nil {
		return fmt.Errorf("%w\n\nExpected: owner/repo 123, owner/repo#123 or https://github.com/owner/repo/pull/123", err)
	}
	owner, repo, number := ref.Owner, ref.Repo, ref.Number

	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set\n\nTip: Set GITHUB_TOKEN or pass --github-token")
	}

	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.AI.Validate(); err != nil {
		return fmt.Errorf("invalid model configuration: %w", err)
	}
	log := newCLILogger(cfg)

	timer := newStepTimer(3, verbose)
	overallStart := time.Now()

	titleColor.Println("pr-warden - PR Review")
	dimColor.Printf("   Target: %s\n\n", ref)

	// 1. Fetch PR metadata
	timer.step("Fetching pull request")
	client := github.NewPATClient(ctx, token, log)
	headSHA, err := client.GetPullRequestHead(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("failed to fetch PR: %w\n\nTip: Check that the PR exists and your token has access", err)
	}
	timer.info("Head SHA: %s", truncateSHA(headSHA))
	timer.done()

	// 2. Connect to the model
	timer.step("Connecting to model")
	generator, err := llm.NewGenerator(ctx, cfg.AI, log)
	if err != nil {
		return fmt.Errorf("failed to create generator LLM: %w", err)
	}
	prompts, err := llm.NewPromptManager()
	if err != nil {
		return fmt.Errorf("failed to create prompt manager: %w", err)
	}
	timer.info("Provider: %s, model: %s", cfg.AI.LLMProvider, cfg.AI.Model)
	timer.done()

	// 3. Run the pipeline
	timer.step("Running review pipeline")
	dryRun := &dryRunClient{Client: client}
	var poster github.Client = dryRun
	if reviewPost {
		poster = client
	}
	job := jobs.NewReviewJob(
		cfg,
		github.StaticClientFactory(poster),
		storage.NewMemoryTracker(),
		precheck.NewChecker(cfg.Precheck, log),
		llm.NewReviewer(generator, prompts, cfg.AI, log),
		log,
	)
	event := &core.WebhookEvent{
		Action:         core.ActionSynchronize,
		RawAction:      string(core.ActionSynchronize),
		RepoOwner:      owner,
		RepoName:       repo,
		RepoFullName:   owner + "/" + repo,
		PRNumber:       number,
		HeadSHA:        headSHA,
		InstallationID: localInstallationID,
		DeliveryID:     "cli",
	}
	outcome, err := job.Run(ctx, event)
	if outcome != nil {
		timer.done(outcome.State.String())
	}
	if err != nil {
		if outcome != nil {
			printOutcome(outcome)
		}
		return fmt.Errorf("review failed: %w", err)
	}

	if verbose {
		dimColor.Printf("\nTotal time: %s\n", time.Since(overallStart).Round(time.Millisecond))
	}
	printOutcome(outcome)

	switch {
	case reviewPost && outcome.Posted():
		successColor.Printf("\nReview posted to %s/%s#%d\n", owner, repo, number)
	case dryRun.body != "":
		fmt.Println()
		body, err := renderMarkdown(dryRun.body)
		if err != nil {
			body = dryRun.body
		}
		fmt.Println(body)
		printDisposition(dryRun.disposition)
		dimColor.Println("Dry run: pass --post to publish this review")
	default:
		successColor.Println("\nNothing to post")
	}
	return nil
}
