package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePullRequestRef(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    PullRequestRef
		wantErr bool
	}{
		{
			name: "https URL",
			in:   "https://github.com/octo/pr-warden/pull/123",
			want: PullRequestRef{Owner: "octo", Repo: "pr-warden", Number: 123},
		},
		{
			name: "URL without scheme",
			in:   "github.com/octo/pr-warden/pull/456",
			want: PullRequestRef{Owner: "octo", Repo: "pr-warden", Number: 456},
		},
		{
			name: "URL with trailing slash",
			in:   "https://github.com/octo/pr-warden/pull/789/",
			want: PullRequestRef{Owner: "octo", Repo: "pr-warden", Number: 789},
		},
		{
			name: "short form",
			in:   "octo/app#7",
			want: PullRequestRef{Owner: "octo", Repo: "app", Number: 7},
		},
		{name: "non-numeric number", in: "https://github.com/octo/app/pull/abc", wantErr: true},
		{name: "zero number", in: "octo/app#0", wantErr: true},
		{name: "issues URL", in: "https://github.com/octo/app/issues/123", wantErr: true},
		{name: "extra segments", in: "https://github.com/octo/app/pull/123/files", wantErr: true},
		{name: "other host", in: "https://example.com/github.com/octo/app/pull/1", wantErr: true},
		{name: "missing repo", in: "octo#3", wantErr: true},
		{name: "nested repo", in: "octo/app/extra#3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePullRequestRef(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPullRequestRef_String(t *testing.T) {
	ref := PullRequestRef{Owner: "octo", Repo: "app", Number: 7}
	assert.Equal(t, "octo/app#7", ref.String())

	parsed, err := ParsePullRequestRef(ref.String())
	assert.NoError(t, err)
	assert.Equal(t, ref, parsed)
}
