// Package cmd implements the vetrina command line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vetrina-ai/vetrina/internal/log"
)

var (
	verbose bool
	jsonLog bool
)

var rootCmd = &cobra.Command{
	Use:   "vetrina",
	Short: "Vetrina is a conversational storefront assistant",
	Long: `Vetrina answers natural language questions about a product catalog.
It converts questions into SQL, runs them against the store database and
narrates the results as an HTML answer with product images, optionally
speaking the answer aloud.

Running vetrina without a subcommand starts the web server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "log in JSON format")
}

// newLogger builds the process logger from the global flags.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return log.New(log.Config{
		Level:  level,
		JSON:   jsonLog,
		Pretty: !jsonLog,
	})
}
