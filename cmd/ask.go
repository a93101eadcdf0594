package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vetrina-ai/vetrina/internal/app"
	"github.com/vetrina-ai/vetrina/internal/config"
	"github.com/vetrina-ai/vetrina/internal/voice"
)

var askHTML bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askHTML, "html", false, "print the raw HTML answer instead of plain text")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	question := strings.Join(args, " ")

	answer, err := a.Assistant.Ask(ctx, question, a.History)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if !askHTML {
		answer = voice.StripHTML(answer)
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
