// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"go/version"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/pr-warden/internal/logger"
)

// ErrMissing is returned when a required setting is not provided.
var ErrMissing = errors.New("required setting is missing")

// Config holds the application's configuration values.
type Config struct {
	Server       ServerConfig
	GitHub       GitHubConfig
	AI           AIConfig
	Precheck     PrecheckConfig
	Store        StoreConfig
	LoggerConfig logger.Config
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string
}

// GitHubConfig holds the GitHub App identity and API timeouts.
type GitHubConfig struct {
	AppID          int64
	WebhookSecret  string
	PrivateKeyPath string
	Timeout        time.Duration
	DiffTimeout    time.Duration
	RepoConfigFile string
}

// AIConfig selects and tunes the review model.
type AIConfig struct {
	LLMProvider  string
	Model        string
	GeminiAPIKey string
	OpenAIAPIKey string
	OpenAIURL    string
	OllamaHost   string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// PrecheckConfig configures the syntax pre-checker.
type PrecheckConfig struct {
	GoVersion      string
	Extension      string
	Exclude        []string
	MaxConcurrency int
}

// StoreConfig selects the backend of the processed-revision tracker.
type StoreConfig struct {
	Driver          string
	RedisURL        string
	DatabaseDSN     string
	SQLitePath      string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets defaults, and validates everything the webhook server needs.
func LoadConfig() (*Config, error) {
	cfg := load(newViper())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCLIConfig is LoadConfig without the GitHub App and store requirements, for
// the command-line tools that authenticate with a personal access token. Commands
// that call a model validate cfg.AI themselves.
func LoadCLIConfig() (*Config, error) {
	cfg := load(newViper())
	if err := cfg.Precheck.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("GITHUB_APP_ID", 0)
	v.SetDefault("GITHUB_WEBHOOK_SECRET", "")
	v.SetDefault("GITHUB_PRIVATE_KEY_PATH", "keys/pr-warden.private-key.pem")
	v.SetDefault("GITHUB_TIMEOUT", "15s")
	v.SetDefault("DIFF_TIMEOUT", "10s")
	v.SetDefault("REPO_CONFIG_FILE", ".pr-warden.yml")
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("MODEL_NAME", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("MODEL_TEMPERATURE", 0.3)
	v.SetDefault("MODEL_MAX_TOKENS", 1000)
	v.SetDefault("MODEL_TIMEOUT", "15s")
	v.SetDefault("PRECHECK_GO_VERSION", "go1.22")
	v.SetDefault("PRECHECK_EXTENSION", ".go")
	v.SetDefault("PRECHECK_EXCLUDE", "prompt_manager.go")
	v.SetDefault("PRECHECK_MAX_CONCURRENCY", 4)
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("SQLITE_PATH", "pr-warden.db")
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			slog.Error("failed to read config file", "error", err)
		}
	}
	return v
}

func load(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		GitHub: GitHubConfig{
			AppID:          v.GetInt64("GITHUB_APP_ID"),
			WebhookSecret:  v.GetString("GITHUB_WEBHOOK_SECRET"),
			PrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
			Timeout:        v.GetDuration("GITHUB_TIMEOUT"),
			DiffTimeout:    v.GetDuration("DIFF_TIMEOUT"),
			RepoConfigFile: v.GetString("REPO_CONFIG_FILE"),
		},
		AI: AIConfig{
			LLMProvider:  strings.ToLower(v.GetString("LLM_PROVIDER")),
			Model:        v.GetString("MODEL_NAME"),
			GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
			OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
			OpenAIURL:    v.GetString("OPENAI_BASE_URL"),
			OllamaHost:   v.GetString("OLLAMA_HOST"),
			Temperature:  v.GetFloat64("MODEL_TEMPERATURE"),
			MaxTokens:    v.GetInt("MODEL_MAX_TOKENS"),
			Timeout:      v.GetDuration("MODEL_TIMEOUT"),
		},
		Precheck: PrecheckConfig{
			GoVersion:      v.GetString("PRECHECK_GO_VERSION"),
			Extension:      v.GetString("PRECHECK_EXTENSION"),
			Exclude:        splitList(v.GetString("PRECHECK_EXCLUDE")),
			MaxConcurrency: v.GetInt("PRECHECK_MAX_CONCURRENCY"),
		},
		Store: StoreConfig{
			Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
			RedisURL:        v.GetString("REDIS_URL"),
			DatabaseDSN:     v.GetString("DATABASE_DSN"),
			SQLitePath:      v.GetString("SQLITE_PATH"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
		LoggerConfig: logger.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks every section of the configuration. A failure here is fatal:
// the process must not start with an incomplete configuration.
func (c *Config) Validate() error {
	if err := c.GitHub.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.Precheck.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}

// Validate checks the GitHub App settings, including that the private key exists.
func (g GitHubConfig) Validate() error {
	if g.AppID <= 0 {
		return fmt.Errorf("%w: GITHUB_APP_ID must be a positive integer", ErrMissing)
	}
	if g.WebhookSecret == "" {
		return fmt.Errorf("%w: GITHUB_WEBHOOK_SECRET must be set", ErrMissing)
	}
	if g.PrivateKeyPath == "" {
		return fmt.Errorf("%w: GITHUB_PRIVATE_KEY_PATH must be set", ErrMissing)
	}
	if _, err := os.Stat(g.PrivateKeyPath); err != nil {
		return fmt.Errorf("private key file %s is not readable: %w", g.PrivateKeyPath, err)
	}
	if g.Timeout <= 0 || g.DiffTimeout <= 0 {
		return fmt.Errorf("GITHUB_TIMEOUT and DIFF_TIMEOUT must be positive")
	}
	return nil
}

// Validate checks the model settings for the selected provider.
func (a AIConfig) Validate() error {
	if a.Model == "" {
		return fmt.Errorf("%w: MODEL_NAME must be set", ErrMissing)
	}
	switch a.LLMProvider {
	case "gemini":
		if a.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY must be set for the gemini provider", ErrMissing)
		}
	case "openai":
		if a.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY must be set for the openai provider", ErrMissing)
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", a.LLMProvider)
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		return fmt.Errorf("MODEL_TEMPERATURE must be between 0 and 2, got %v", a.Temperature)
	}
	if a.MaxTokens <= 0 {
		return fmt.Errorf("MODEL_MAX_TOKENS must be positive, got %d", a.MaxTokens)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	}
	return nil
}

// Validate checks the pre-checker settings.
func (p PrecheckConfig) Validate() error {
	if !version.IsValid(p.GoVersion) {
		return fmt.Errorf("PRECHECK_GO_VERSION %q is not a valid Go version (expected e.g. go1.22)", p.GoVersion)
	}
	if !strings.HasPrefix(p.Extension, ".") {
		return fmt.Errorf("PRECHECK_EXTENSION must start with a dot, got %q", p.Extension)
	}
	if p.MaxConcurrency <= 0 {
		return fmt.Errorf("PRECHECK_MAX_CONCURRENCY must be positive, got %d", p.MaxConcurrency)
	}
	return nil
}

// Validate checks that the selected tracker backend has what it needs.
func (s StoreConfig) Validate() error {
	switch s.Driver {
	case "memory":
	case "redis":
		if s.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL must be set for the redis store", ErrMissing)
		}
	case "postgres":
		if s.DatabaseDSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN must be set for the postgres store", ErrMissing)
		}
	case "sqlite":
		if s.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH must be set for the sqlite store", ErrMissing)
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", s.Driver)
	}
	return nil
}
