package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/jobs"
	"github.com/sevigo/pr-warden/internal/precheck"
	"github.com/sevigo/pr-warden/internal/storage"
	"github.com/sevigo/pr-warden/mocks"
)

const testSecret = "s3cret"

const pullRequestPayload = `{
  "action": "%s",
  "number": 7,
  "pull_request": {"number": 7, "head": {"sha": "0123456789abcdef"}},
  "repository": {"name": "app", "full_name": "octo/app", "owner": {"login": "octo"}},
  "installation": {"id": 99}
}`

type jobFunc func(ctx context.Context, event *core.WebhookEvent) (*core.Outcome, error)

func (f jobFunc) Run(ctx context.Context, event *core.WebhookEvent) (*core.Outcome, error) {
	return f(ctx, event)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func payloadFor(action string) string {
	return strings.Replace(pullRequestPayload, "%s", action, 1)
}

func newRequest(eventType, body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "delivery-1")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

func TestWebhookHandler_Handle(t *testing.T) {
	posted := jobFunc(func(context.Context, *core.WebhookEvent) (*core.Outcome, error) {
		return &core.Outcome{State: core.StateCommitted}, nil
	})

	tests := []struct {
		name      string
		eventType string
		body      string
		signature func(body string) string
		job       core.Job
		wantCode  int
		wantBody  string
	}{
		{
			name:      "missing signature",
			eventType: "pull_request",
			body:      payloadFor("opened"),
			signature: func(string) string { return "" },
			wantCode:  http.StatusUnauthorized,
			wantBody:  InvalidSignatureBody,
		},
		{
			name:      "wrong secret",
			eventType: "pull_request",
			body:      payloadFor("opened"),
			signature: func(b string) string { return signBody("other", b) },
			wantCode:  http.StatusUnauthorized,
			wantBody:  InvalidSignatureBody,
		},
		{
			name:      "unsupported event",
			eventType: "push",
			body:      `{"ref":"refs/heads/main"}`,
			wantCode:  http.StatusOK,
			wantBody:  UnsupportedEventBody,
		},
		{
			name:      "unparsable json",
			eventType: "pull_request",
			body:      `{"action":`,
			wantCode:  http.StatusInternalServerError,
			wantBody:  InternalErrorBody,
		},
		{
			name:      "incomplete event",
			eventType: "pull_request",
			body:      `{"action":"opened","number":7}`,
			wantCode:  http.StatusOK,
			wantBody:  NoReviewBody,
		},
		{
			name:      "review posted",
			eventType: "pull_request",
			body:      payloadFor("opened"),
			job:       posted,
			wantCode:  http.StatusOK,
			wantBody:  ReviewPostedBody,
		},
		{
			name:      "posted but not recorded still counts as posted",
			eventType: "pull_request",
			body:      payloadFor("synchronize"),
			job: jobFunc(func(context.Context, *core.WebhookEvent) (*core.Outcome, error) {
				return &core.Outcome{State: core.StatePosted}, nil
			}),
			wantCode: http.StatusOK,
			wantBody: ReviewPostedBody,
		},
		{
			name:      "pipeline failure",
			eventType: "pull_request",
			body:      payloadFor("opened"),
			job: jobFunc(func(context.Context, *core.WebhookEvent) (*core.Outcome, error) {
				return &core.Outcome{State: core.StateFailed}, jobs.ErrDiffUnavailable
			}),
			wantCode: http.StatusOK,
			wantBody: NoReviewBody,
		},
		{
			name:      "nothing to do",
			eventType: "pull_request",
			body:      payloadFor("closed"),
			job: jobFunc(func(context.Context, *core.WebhookEvent) (*core.Outcome, error) {
				return &core.Outcome{State: core.StateSkipped}, nil
			}),
			wantCode: http.StatusOK,
			wantBody: NoReviewBody,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			job := tc.job
			if job == nil {
				job = jobFunc(func(context.Context, *core.WebhookEvent) (*core.Outcome, error) {
					t.Fatal("job must not run")
					return nil, nil
				})
			}
			signature := signBody(testSecret, tc.body)
			if tc.signature != nil {
				signature = tc.signature(tc.body)
			}

			rec := httptest.NewRecorder()
			NewWebhookHandler([]byte(testSecret), job, discardLogger()).Handle(rec, newRequest(tc.eventType, tc.body, signature))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestWebhookHandler_PassesEvent(t *testing.T) {
	var got *core.WebhookEvent
	var ctxErr error
	job := jobFunc(func(ctx context.Context, event *core.WebhookEvent) (*core.Outcome, error) {
		got = event
		ctxErr = ctx.Err()
		return &core.Outcome{State: core.StateNoAction}, nil
	})

	body := payloadFor("synchronize")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := newRequest("pull_request", body, signBody(testSecret, body)).WithContext(ctx)
	req.Header.Del("X-GitHub-Delivery")

	rec := httptest.NewRecorder()
	NewWebhookHandler([]byte(testSecret), job, discardLogger()).Handle(rec, req)

	require.NotNil(t, got)
	assert.NoError(t, ctxErr, "pipeline context must not follow client cancellation")
	assert.Equal(t, core.ActionSynchronize, got.Action)
	assert.Equal(t, "octo/app", got.RepoFullName)
	assert.Equal(t, 7, got.PRNumber)
	assert.Equal(t, int64(99), got.InstallationID)
	assert.NotEmpty(t, got.DeliveryID, "a delivery ID is generated when GitHub sends none")
}

// TestWebhookHandler_RecordedRevision drives the real pipeline: a redelivery of
// a reviewed revision makes no GitHub or model call.
func TestWebhookHandler_RecordedRevision(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mocks.NewMockClientFactory(ctrl)
	reviewer := mocks.NewMockReviewGenerator(ctrl)

	tracker := storage.NewMemoryTracker()
	require.NoError(t, tracker.MarkProcessed(context.Background(), "octo/app", 7, "0123456789abcdef"))

	cfg := &config.Config{
		GitHub:   config.GitHubConfig{Timeout: time.Second, DiffTimeout: time.Second},
		Precheck: config.PrecheckConfig{GoVersion: "go1.22", Extension: ".go", MaxConcurrency: 1},
	}
	checker := precheck.NewChecker(cfg.Precheck, discardLogger())
	job := jobs.NewReviewJob(cfg, factory, tracker, checker, reviewer, discardLogger())

	body := payloadFor("synchronize")
	rec := httptest.NewRecorder()
	NewWebhookHandler([]byte(testSecret), job, discardLogger()).Handle(rec, newRequest("pull_request", body, signBody(testSecret, body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, NoReviewBody, rec.Body.String())
}

func TestWebhookHandler_JobErrorWithoutOutcome(t *testing.T) {
	job := jobFunc(func(context.Context, *core.WebhookEvent) (*core.Outcome, error) {
		return nil, errors.New("input validation failed")
	})
	body := payloadFor("opened")

	rec := httptest.NewRecorder()
	NewWebhookHandler([]byte(testSecret), job, discardLogger()).Handle(rec, newRequest("pull_request", body, signBody(testSecret, body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, NoReviewBody, rec.Body.String())
}
