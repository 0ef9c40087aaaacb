package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/github"
	"github.com/sevigo/pr-warden/internal/precheck"
	"github.com/sevigo/pr-warden/internal/storage"
	"github.com/sevigo/pr-warden/mocks"
)

const (
	repoConfigFile = ".pr-warden.yml"
	validGoFile    = "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"
	brokenGoFile   = "package main\n\nfunc main() {\n\tx :=\n}\n"
	sampleDiff     = "diff --git a/main.go b/main.go\n+func main() {}\n"
)

type fixture struct {
	ctrl     *gomock.Controller
	factory  *mocks.MockClientFactory
	client   *mocks.MockClient
	tracker  *mocks.MockTracker
	reviewer *mocks.MockReviewGenerator
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		ctrl:     ctrl,
		factory:  mocks.NewMockClientFactory(ctrl),
		client:   mocks.NewMockClient(ctrl),
		tracker:  mocks.NewMockTracker(ctrl),
		reviewer: mocks.NewMockReviewGenerator(ctrl),
		cfg: &config.Config{
			GitHub: config.GitHubConfig{
				Timeout:        time.Second,
				DiffTimeout:    time.Second,
				RepoConfigFile: repoConfigFile,
			},
			Precheck: config.PrecheckConfig{
				GoVersion:      "go1.22",
				Extension:      ".go",
				Exclude:        []string{"prompt_manager.go"},
				MaxConcurrency: 2,
			},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fixture) job(tracker storage.Tracker) core.Job {
	if tracker == nil {
		tracker = f.tracker
	}
	checker := precheck.NewChecker(f.cfg.Precheck, discardLogger())
	return NewReviewJob(f.cfg, f.factory, tracker, checker, f.reviewer, discardLogger())
}

// expectFetchStage sets up the calls every run makes before the model.
func (f *fixture) expectFetchStage(event *core.WebhookEvent, files map[string]string) {
	f.factory.EXPECT().ForInstallation(gomock.Any(), event.InstallationID).Return(f.client, nil)
	f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", repoConfigFile, event.HeadSHA).
		Return(nil, fmt.Errorf("%s: %w", repoConfigFile, github.ErrNotFound))

	var changed []github.ChangedFile
	for name, content := range files {
		changed = append(changed, github.ChangedFile{Filename: name, Status: "modified"})
		f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", name, event.HeadSHA).Return([]byte(content), nil)
	}
	f.client.EXPECT().ListChangedFiles(gomock.Any(), "octo", "app", 7).Return(changed, nil)
}

func TestReviewJob_PostsDeduplicatedReview(t *testing.T) {
	f := newFixture(t)
	event := validEvent()
	tracker := storage.NewMemoryTracker()

	f.expectFetchStage(event, map[string]string{"main.go": validGoFile})
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
	f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return(`### Summary
One real problem.

### Suggestions
- a.py:10 - add docstring

### Issues
- a.py:10 - missing docs`, nil)

	wantBody := "🚀 **AI Code Review**\n\n### Summary\nOne real problem.\n\n### Issues\n- a.py:10 - missing docs"
	f.client.EXPECT().CreateReview(gomock.Any(), "octo", "app", 7, event.HeadSHA, wantBody, core.DispositionComment).Return(nil)

	outcome, err := f.job(tracker).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateCommitted, outcome.State)
	assert.Equal(t, core.DispositionComment, outcome.Disposition)
	assert.True(t, outcome.Posted())
	assert.Empty(t, outcome.Warnings)
	assert.Equal(t, []core.State{
		core.StateVerified,
		core.StateFilesFetched,
		core.StateSyntaxChecked,
		core.StateDiffFetched,
		core.StateReviewGenerated,
		core.StateMerged,
		core.StatePosted,
		core.StateCommitted,
	}, outcome.Trail)

	ok, err := tracker.ShouldProcess(context.Background(), "octo/app", 7, event.HeadSHA)
	require.NoError(t, err)
	assert.False(t, ok, "revision must be recorded after posting")

	// A redelivery of the same revision is skipped without any external call.
	event.Action = core.ActionSynchronize
	outcome, err = f.job(tracker).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateSkipped, outcome.State)
}

func TestReviewJob_SkipsRecordedRevision(t *testing.T) {
	f := newFixture(t)
	event := validEvent()
	event.Action, event.RawAction = core.ActionSynchronize, "synchronize"

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(false, nil)

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateSkipped, outcome.State)
	assert.False(t, outcome.Posted())
	assert.Contains(t, outcome.Reason, "already reviewed")
}

func TestReviewJob_SkipsUnmonitoredAction(t *testing.T) {
	f := newFixture(t)
	event := validEvent()
	event.Action, event.RawAction = core.ActionOther, "closed"

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateSkipped, outcome.State)
	assert.Contains(t, outcome.Reason, `"closed"`)
}

func TestReviewJob_DiffUnavailable(t *testing.T) {
	f := newFixture(t)
	event := validEvent()

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
	f.expectFetchStage(event, nil)
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return("", errors.New("502 bad gateway"))

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.ErrorIs(t, err, ErrDiffUnavailable)
	assert.Equal(t, core.StateFailed, outcome.State)
	assert.Equal(t, []core.State{core.StateVerified, core.StateFilesFetched, core.StateFailed}, outcome.Trail)
	assert.False(t, outcome.Posted())
}

func TestReviewJob_ModelTimeoutPostsSyntaxIssues(t *testing.T) {
	f := newFixture(t)
	event := validEvent()

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
	f.expectFetchStage(event, map[string]string{"main.go": brokenGoFile})
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
	f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("", context.DeadlineExceeded)

	var body string
	f.client.EXPECT().CreateReview(gomock.Any(), "octo", "app", 7, event.HeadSHA, gomock.Any(), core.DispositionComment).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, _, b string, _ core.Disposition) error {
			body = b
			return nil
		})
	f.tracker.EXPECT().MarkProcessed(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(nil)

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateCommitted, outcome.State)
	assert.Equal(t, 2, outcome.SyntaxCount)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "model review unavailable")

	assert.Regexp(t, `^🚀 \*\*AI Code Review\*\*\n\n### Syntax Validation Issues\n- main\.go:\d+ - SyntaxError: .+\n- main\.go:\d+ - CompileError: .+$`, body)
	assert.NotContains(t, body, "### Summary")
	assert.NotContains(t, body, "LGTM")
}

func TestReviewJob_PostFailureIsNotRecorded(t *testing.T) {
	f := newFixture(t)
	event := validEvent()

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
	f.expectFetchStage(event, nil)
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
	f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("### Summary\nAll good.", nil)
	f.client.EXPECT().CreateReview(gomock.Any(), "octo", "app", 7, event.HeadSHA, gomock.Any(), core.DispositionApprove).
		Return(errors.New("403 forbidden"))

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.ErrorIs(t, err, ErrPostFailed)
	assert.Equal(t, core.StateFailed, outcome.State)
	assert.Contains(t, outcome.Trail, core.StateSyntaxChecked)
	assert.NotContains(t, outcome.Trail, core.StatePosted)
}

func TestReviewJob_NothingToPost(t *testing.T) {
	f := newFixture(t)
	event := validEvent()

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
	f.expectFetchStage(event, map[string]string{"main.go": validGoFile})
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
	f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("   \n", nil)

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateNoAction, outcome.State)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "model output discarded")
}

func TestReviewJob_TrackerFailuresDegrade(t *testing.T) {
	f := newFixture(t)
	event := validEvent()

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(false, errors.New("redis down"))
	f.expectFetchStage(event, nil)
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
	f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("### Summary\nFine.", nil)
	f.client.EXPECT().CreateReview(gomock.Any(), "octo", "app", 7, event.HeadSHA, gomock.Any(), core.DispositionApprove).Return(nil)
	f.tracker.EXPECT().MarkProcessed(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(errors.New("redis down"))

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StatePosted, outcome.State)
	assert.True(t, outcome.Posted())
	assert.Len(t, outcome.Warnings, 2)
}

func TestReviewJob_FileSelection(t *testing.T) {
	f := newFixture(t)
	event := validEvent()
	f.cfg.GitHub.RepoConfigFile = ""

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
	f.factory.EXPECT().ForInstallation(gomock.Any(), event.InstallationID).Return(f.client, nil)
	f.client.EXPECT().ListChangedFiles(gomock.Any(), "octo", "app", 7).Return([]github.ChangedFile{
		{Filename: "README.md", Status: "modified"},
		{Filename: "old.go", Status: github.FileStatusRemoved},
		{Filename: "internal/llm/prompt_manager.go", Status: "modified"},
		{Filename: "good.go", Status: "added"},
		{Filename: "gone.go", Status: "modified"},
	}, nil)
	f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", "good.go", event.HeadSHA).Return([]byte(validGoFile), nil)
	f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", "gone.go", event.HeadSHA).Return(nil, errors.New("timeout"))
	f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
	f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("### Summary\nFine.", nil)
	f.client.EXPECT().CreateReview(gomock.Any(), "octo", "app", 7, event.HeadSHA, gomock.Any(), core.DispositionApprove).Return(nil)
	f.tracker.EXPECT().MarkProcessed(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(nil)

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, core.StateCommitted, outcome.State)
	assert.Equal(t, 0, outcome.SyntaxCount)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "gone.go")
}

func TestReviewJob_RepoConfig(t *testing.T) {
	t.Run("disabled repository is skipped", func(t *testing.T) {
		f := newFixture(t)
		event := validEvent()

		f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
		f.factory.EXPECT().ForInstallation(gomock.Any(), event.InstallationID).Return(f.client, nil)
		f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", repoConfigFile, event.HeadSHA).
			Return([]byte("disabled: true\n"), nil)

		outcome, err := f.job(nil).Run(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, core.StateSkipped, outcome.State)
		assert.Contains(t, outcome.Reason, "disabled")
	})

	t.Run("syntax check can be turned off", func(t *testing.T) {
		f := newFixture(t)
		event := validEvent()

		f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
		f.factory.EXPECT().ForInstallation(gomock.Any(), event.InstallationID).Return(f.client, nil)
		f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", repoConfigFile, event.HeadSHA).
			Return([]byte("skip_syntax_check: true\n"), nil)
		f.client.EXPECT().ListChangedFiles(gomock.Any(), "octo", "app", 7).
			Return([]github.ChangedFile{{Filename: "main.go", Status: "modified"}}, nil)
		f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
		f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("", errors.New("model down"))

		outcome, err := f.job(nil).Run(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, core.StateNoAction, outcome.State)
	})

	t.Run("invalid config falls back to defaults", func(t *testing.T) {
		f := newFixture(t)
		event := validEvent()

		f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
		f.factory.EXPECT().ForInstallation(gomock.Any(), event.InstallationID).Return(f.client, nil)
		f.client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", repoConfigFile, event.HeadSHA).
			Return([]byte("disabled: [not, a, bool"), nil)
		f.client.EXPECT().ListChangedFiles(gomock.Any(), "octo", "app", 7).Return(nil, errors.New("rate limited"))
		f.client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return(sampleDiff, nil)
		f.reviewer.EXPECT().GenerateReview(gomock.Any(), sampleDiff).Return("### Issues\n- main.go:1 - bad", nil)
		f.client.EXPECT().CreateReview(gomock.Any(), "octo", "app", 7, event.HeadSHA, gomock.Any(), core.DispositionComment).Return(nil)
		f.tracker.EXPECT().MarkProcessed(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(nil)

		outcome, err := f.job(nil).Run(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, core.StateCommitted, outcome.State)
		assert.Len(t, outcome.Warnings, 2)
	})
}

func TestReviewJob_InstallationFailure(t *testing.T) {
	f := newFixture(t)
	event := validEvent()

	f.tracker.EXPECT().ShouldProcess(gomock.Any(), "octo/app", 7, event.HeadSHA).Return(true, nil)
	f.factory.EXPECT().ForInstallation(gomock.Any(), event.InstallationID).Return(nil, errors.New("bad key"))

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, core.StateFailed, outcome.State)
}

func TestReviewJob_InvalidEvent(t *testing.T) {
	f := newFixture(t)
	event := validEvent()
	event.HeadSHA = ""

	outcome, err := f.job(nil).Run(context.Background(), event)
	require.ErrorContains(t, err, "input validation failed")
	assert.Nil(t, outcome)
}
