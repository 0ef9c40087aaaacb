package core

// RepoConfig represents the structure of the optional per-repository config file.
type RepoConfig struct {
	// Disabled turns every delivery for the repository into a no-op.
	Disabled bool `yaml:"disabled"`

	// SkipSyntaxCheck disables the syntax pre-checker for this repository.
	SkipSyntaxCheck bool `yaml:"skip_syntax_check"`

	// Glob patterns (path.Match syntax) excluded from the syntax pre-checker.
	// Example: ["vendor/*", "*_gen.go"]
	ExcludePaths []string `yaml:"exclude_paths"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		ExcludePaths: []string{},
	}
}
