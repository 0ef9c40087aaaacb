package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/pr-warden/internal/config"
)

// tokenRefreshMargin is how long before expiry a cached installation token is replaced.
const tokenRefreshMargin = time.Minute

// ClientFactory hands out API clients authenticated as an app installation.
//
//go:generate mockgen -destination=../../mocks/mock_client_factory.go -package=mocks . ClientFactory
type ClientFactory interface {
	ForInstallation(ctx context.Context, installationID int64) (Client, error)
}

// StaticClientFactory returns a factory that hands out the same client for every
// installation, for callers authenticated with a personal access token.
func StaticClientFactory(client Client) ClientFactory {
	return staticClientFactory{client: client}
}

type staticClientFactory struct {
	client Client
}

func (f staticClientFactory) ForInstallation(context.Context, int64) (Client, error) {
	return f.client, nil
}

type installationToken struct {
	token     string
	expiresAt time.Time
}

type appClientFactory struct {
	appClient *github.Client
	logger    *slog.Logger

	mu     sync.Mutex
	tokens map[int64]installationToken
}

// NewAppClientFactory loads the app private key and prepares the JWT-signed
// client used to mint installation tokens.
func NewAppClientFactory(cfg config.GitHubConfig, logger *slog.Logger) (ClientFactory, error) {
	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.PrivateKeyPath, err)
	}

	// The apps transport signs requests with the app JWT, which is only
	// accepted by the App API (e.g. to get installation tokens).
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, cfg.AppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}

	return &appClientFactory{
		appClient: github.NewClient(&http.Client{Transport: appTransport}),
		logger:    logger,
		tokens:    make(map[int64]installationToken),
	}, nil
}

// ForInstallation returns a client for installationID, reusing the cached
// token until shortly before it expires.
func (f *appClientFactory) ForInstallation(ctx context.Context, installationID int64) (Client, error) {
	token, err := f.installationToken(ctx, installationID)
	if err != nil {
		return nil, err
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewGitHubClient(github.NewClient(newHTTPClient(ts)), f.logger), nil
}

func (f *appClientFactory) installationToken(ctx context.Context, installationID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cached, ok := f.tokens[installationID]; ok && time.Until(cached.expiresAt) > tokenRefreshMargin {
		return cached.token, nil
	}

	f.logger.Info("creating installation token", "installation_id", installationID)
	token, _, err := f.appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token.GetToken() == "" {
		return "", fmt.Errorf("received an empty installation token")
	}

	f.tokens[installationID] = installationToken{
		token:     token.GetToken(),
		expiresAt: token.GetExpiresAt().Time,
	}
	f.logger.Info("successfully created installation token", "installation_id", installationID, "expires_at", token.GetExpiresAt())
	return token.GetToken(), nil
}
