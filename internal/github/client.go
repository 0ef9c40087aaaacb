// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v73/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/sevigo/pr-warden/internal/core"
)

// ErrNotFound is returned when the requested file does not exist at the ref.
var ErrNotFound = errors.New("not found")

// FileStatusRemoved marks a changed file that no longer exists at the head revision.
const FileStatusRemoved = "removed"

// ChangedFile holds the filename and change status for a single file
// included in a pull request.
type ChangedFile struct {
	Filename string
	Status   string
}

// Client defines the pull request operations the review pipeline needs.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error)
	GetPullRequestHead(ctx context.Context, owner, repo string, number int) (string, error)
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	CreateReview(ctx context.Context, owner, repo string, number int, commitSHA, body string, disposition core.Disposition) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
// This is useful for CLI tools or local development where an App installation is not available.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewGitHubClient(github.NewClient(newHTTPClient(ts)), logger)
}

// newHTTPClient builds the transport stack shared by every API client:
// conditional request caching, then secondary rate limit handling, then
// token authentication when ts is set.
func newHTTPClient(ts oauth2.TokenSource) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	if ts == nil {
		return rateLimitClient
	}
	return &http.Client{Transport: &oauth2.Transport{Source: ts, Base: rateLimitClient.Transport}}
}

// ListChangedFiles retrieves the list of files modified in a pull request.
// It handles pagination automatically to ensure all files are fetched
// from the GitHub API, which returns a maximum of 100 files per page.
func (g *gitHubClient) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	var allFiles []ChangedFile
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, file := range files {
			allFiles = append(allFiles, ChangedFile{
				Filename: file.GetFilename(),
				Status:   file.GetStatus(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// GetFileContent returns the decoded content of path at ref. A missing file
// or a directory yields ErrNotFound.
func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	file, _, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s@%s: %w", path, ref, ErrNotFound)
		}
		g.logger.Error("failed to get file content", "owner", owner, "repo", repo, "path", path, "ref", ref, "error", err)
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%s@%s is not a file: %w", path, ref, ErrNotFound)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", path, err)
	}
	return []byte(content), nil
}

// GetPullRequestHead returns the head commit SHA of a pull request.
func (g *gitHubClient) GetPullRequestHead(ctx context.Context, owner, repo string, number int) (string, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	sha := pr.GetHead().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("pull request %s/%s#%d has no head revision", owner, repo, number)
	}
	return sha, nil
}

// GetPullRequestDiff retrieves the diff of a pull request as a string.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return diff, nil
}

// CreateReview posts a pull request review pinned to commitSHA.
func (g *gitHubClient) CreateReview(ctx context.Context, owner, repo string, number int, commitSHA, body string, disposition core.Disposition) error {
	reviewRequest := &github.PullRequestReviewRequest{
		CommitID: github.Ptr(commitSHA),
		Body:     github.Ptr(body),
		Event:    github.Ptr(string(disposition)),
	}

	_, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}
