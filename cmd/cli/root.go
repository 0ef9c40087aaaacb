package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/logger"
)

var (
	githubToken string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "warden-cli",
	Short: "warden-cli is the command-line interface for pr-warden.",
	Long: `A CLI for running the pr-warden review pipeline locally: syntax pre-checks on
local files, formatting of raw model output, and one-off reviews of a pull request.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub Token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")

	if err := viper.BindPFlag("GITHUB_TOKEN", rootCmd.PersistentFlags().Lookup("github-token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads ENV variables if set. Keys are unprefixed, like the
// server's configuration.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newCLILogger keeps log lines on stderr so command output stays pipeable.
func newCLILogger(cfg *config.Config) *slog.Logger {
	loggerConfig := cfg.LoggerConfig
	if verbose {
		loggerConfig.Level = "debug"
	} else if loggerConfig.Level == "" || loggerConfig.Level == "info" {
		loggerConfig.Level = "warn"
	}
	return logger.NewLogger(loggerConfig, os.Stderr)
}
