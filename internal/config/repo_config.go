package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/pr-warden/internal/core"
)

// ErrConfigParsing is returned when a repository config file is not valid YAML.
var ErrConfigParsing = errors.New("config parsing failed")

// ParseRepoConfig parses the contents of a repository's config file on top of the
// defaults. Empty content yields the defaults.
func ParseRepoConfig(data []byte) (*core.RepoConfig, error) {
	cfg := core.DefaultRepoConfig()
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	return cfg, nil
}
