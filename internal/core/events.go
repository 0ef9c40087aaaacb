// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
)

// PullRequestEventType is the value of the X-GitHub-Event header for the only
// event kind the service reviews.
const PullRequestEventType = "pull_request"

// Action is the pull request action carried by a webhook delivery.
type Action string

const (
	ActionOpened      Action = "opened"
	ActionSynchronize Action = "synchronize"
	ActionOther       Action = "other"
)

// ParseAction maps a raw webhook action onto the actions the pipeline knows about.
func ParseAction(raw string) Action {
	switch Action(raw) {
	case ActionOpened, ActionSynchronize:
		return Action(raw)
	default:
		return ActionOther
	}
}

// Monitored reports whether the action should trigger a review: a new pull request
// or new commits pushed to an existing one.
func (a Action) Monitored() bool {
	return a == ActionOpened || a == ActionSynchronize
}

// WebhookEvent represents a simplified, internal view of a pull_request webhook.
type WebhookEvent struct {
	Action    Action
	RawAction string

	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	HeadSHA  string

	InstallationID int64
	DeliveryID     string
}

// ShortSHA returns the first seven characters of the head revision for log lines.
func (e *WebhookEvent) ShortSHA() string {
	if len(e.HeadSHA) > 7 {
		return e.HeadSHA[:7]
	}
	return e.HeadSHA
}

// EventFromPullRequest transforms a raw GitHub PullRequestEvent into the application's
// internal WebhookEvent. It acts as an anti-corruption layer: deliveries missing the
// repository, pull request number, head revision or installation are rejected here
// instead of failing halfway through the pipeline. Unmonitored actions are not an
// error; they are mapped to ActionOther and skipped by the pipeline.
func EventFromPullRequest(event *github.PullRequestEvent, deliveryID string) (*WebhookEvent, error) {
	if event == nil {
		return nil, fmt.Errorf("pull request event is nil")
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" || repo.GetFullName() == "" {
		return nil, fmt.Errorf("repository information is missing from the event")
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, fmt.Errorf("pull request is missing from the event")
	}

	prNumber := pr.GetNumber()
	if prNumber <= 0 {
		prNumber = event.GetNumber()
	}
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	if pr.GetHead().GetSHA() == "" {
		return nil, fmt.Errorf("head revision is missing from the event")
	}

	if event.GetInstallation().GetID() == 0 {
		return nil, fmt.Errorf("installation ID is missing from the event")
	}

	return &WebhookEvent{
		Action:         ParseAction(event.GetAction()),
		RawAction:      event.GetAction(),
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		PRNumber:       prNumber,
		HeadSHA:        pr.GetHead().GetSHA(),
		InstallationID: event.GetInstallation().GetID(),
		DeliveryID:     deliveryID,
	}, nil
}
