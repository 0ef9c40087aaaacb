// Package handler provides HTTP handlers for the pr-warden service.
package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"
	"github.com/google/uuid"

	"github.com/sevigo/pr-warden/internal/core"
	internalgithub "github.com/sevigo/pr-warden/internal/github"
)

// Response bodies of the webhook endpoint.
const (
	InvalidSignatureBody = "Invalid signature"
	UnsupportedEventBody = "Event type not supported"
	ReviewPostedBody     = "Review posted"
	NoReviewBody         = "No review needed"
	InternalErrorBody    = "Internal server error"
)

// maxPayloadBytes is the largest payload GitHub delivers.
const maxPayloadBytes = 25 << 20

// WebhookHandler processes incoming webhooks from GitHub.
type WebhookHandler struct {
	secret []byte
	job    core.Job
	logger *slog.Logger
}

// NewWebhookHandler creates a new webhook handler verifying deliveries with secret.
func NewWebhookHandler(secret []byte, job core.Job, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret: secret,
		job:    job,
		logger: logger,
	}
}

// Handle authenticates a delivery and, for pull request events, runs the
// review pipeline before answering.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		http.Error(w, InternalErrorBody, http.StatusInternalServerError)
		return
	}

	if !internalgithub.VerifySignature(payload, r.Header.Get(internalgithub.SignatureHeader), h.secret) {
		h.logger.Warn("rejected webhook with invalid signature", "remote", r.RemoteAddr)
		http.Error(w, InvalidSignatureBody, http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	if eventType != core.PullRequestEventType {
		h.logger.Debug("ignoring unsupported webhook event type", "type", eventType)
		_, _ = fmt.Fprint(w, UnsupportedEventBody)
		return
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, InternalErrorBody, http.StatusInternalServerError)
		return
	}
	prEvent, ok := parsed.(*github.PullRequestEvent)
	if !ok {
		h.logger.Error("unexpected webhook payload type", "type", fmt.Sprintf("%T", parsed))
		http.Error(w, InternalErrorBody, http.StatusInternalServerError)
		return
	}

	deliveryID := github.DeliveryID(r)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	event, err := core.EventFromPullRequest(prEvent, deliveryID)
	if err != nil {
		h.logger.Info("ignoring pull request event", "reason", err.Error(), "delivery", deliveryID)
		_, _ = fmt.Fprint(w, NoReviewBody)
		return
	}

	// The review is posted even if GitHub hangs up before we answer.
	outcome, err := h.job.Run(context.WithoutCancel(r.Context()), event)
	if err != nil {
		h.logger.Error("review pipeline failed", "error", err, "repo", event.RepoFullName, "pr", event.PRNumber, "delivery", deliveryID)
	}

	if outcome != nil && outcome.Posted() {
		_, _ = fmt.Fprint(w, ReviewPostedBody)
		return
	}
	_, _ = fmt.Fprint(w, NoReviewBody)
}
