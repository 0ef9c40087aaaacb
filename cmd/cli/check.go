package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/precheck"
)

var errFindings = errors.New("syntax pre-check found issues")

var (
	checkGoVersion string
	checkAll       bool
)

var checkCmd = &cobra.Command{
	Use:   "check <files...>",
	Short: "Run the syntax pre-check on local Go files",
	Long: `Parses and type-checks each file in isolation with the same rules the webhook
pipeline applies to pull request files. Exits non-zero when any issue is found.

Examples:
  warden-cli check main.go internal/server/router.go
  warden-cli check --go-version go1.21 $(git diff --name-only)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	checkCmd.Flags().StringVar(&checkGoVersion, "go-version", "", "Target Go version, e.g. go1.22 (overrides PRECHECK_GO_VERSION)")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "Check files even if they are excluded or have another extension")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if checkGoVersion != "" {
		cfg.Precheck.GoVersion = checkGoVersion
	}
	checker := precheck.NewChecker(cfg.Precheck, newCLILogger(cfg))

	var issues []core.SyntaxIssue
	for _, path := range args {
		name := filepath.ToSlash(path)
		if !checkAll && !checker.Matches(name) {
			dimColor.Printf("skip %s\n", name)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		found := checker.CheckFile(name, content)
		printIssues(name, found)
		issues = append(issues, found...)
	}

	if len(issues) > 0 {
		return fmt.Errorf("%w: %d issue(s)", errFindings, len(issues))
	}
	return nil
}
