// Package cli implements the afresh command-line interface using Cobra.
// "serve" runs the HTTP API; the other subcommands drive the same engine
// directly against the database for operators and local testing.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $AFRESH_HOME/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:   "afresh",
	Short: "afresh: nicotine-free progress and step rewards",
	Long: `afresh tracks daily nicotine-free check-ins and step counts.
It derives streaks, achievements and health milestones from the log history
and runs a points ledger where steps are earned and rewards are claimed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
