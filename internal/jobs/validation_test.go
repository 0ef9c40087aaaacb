package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/pr-warden/internal/core"
)

func validEvent() *core.WebhookEvent {
	return &core.WebhookEvent{
		Action:         core.ActionOpened,
		RawAction:      "opened",
		RepoOwner:      "octo",
		RepoName:       "app",
		RepoFullName:   "octo/app",
		PRNumber:       7,
		HeadSHA:        "0123456789abcdef",
		InstallationID: 99,
		DeliveryID:     "delivery-1",
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *core.WebhookEvent)
		nilEvt  bool
		wantErr string
	}{
		{name: "valid event", mutate: func(*core.WebhookEvent) {}},
		{name: "nil event", nilEvt: true, wantErr: "event cannot be nil"},
		{name: "missing owner", mutate: func(e *core.WebhookEvent) { e.RepoOwner = "" }, wantErr: "owner"},
		{name: "missing name", mutate: func(e *core.WebhookEvent) { e.RepoName = "" }, wantErr: "repository name"},
		{name: "missing full name", mutate: func(e *core.WebhookEvent) { e.RepoFullName = "" }, wantErr: "full name"},
		{name: "zero pr", mutate: func(e *core.WebhookEvent) { e.PRNumber = 0 }, wantErr: "pull request number"},
		{name: "missing sha", mutate: func(e *core.WebhookEvent) { e.HeadSHA = "" }, wantErr: "head SHA"},
		{name: "missing installation", mutate: func(e *core.WebhookEvent) { e.InstallationID = 0 }, wantErr: "installation ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var event *core.WebhookEvent
			if !tt.nilEvt {
				event = validEvent()
				tt.mutate(event)
			}

			err := validateEvent(event)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
