package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/selim/internal/cli"
	"github.com/aretw0/selim/internal/config"
	"github.com/aretw0/selim/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "selim",
	Short: "Selim AI, a Turkish-speaking chat companion",
	Long: `Selim AI answers in Turkish. With an API key (GEMINI_API_KEY or API_KEY) replies come
from Gemini; without one Selim runs in demo mode and answers arithmetic, greetings and the
time locally.

Running selim without a subcommand starts the terminal chat.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, cli.ChatOptions{})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// loadApp reads the configuration and wires the application.
// Interactive commands stay silent unless --debug is set.
func loadApp(ctx context.Context, cmd *cobra.Command, interactive bool) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger := logging.NewNop()
	if debug || !interactive {
		logger, err = cli.NewLogger(cfg.LogLevel, debug)
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return cli.NewApp(ctx, cfg, logger)
}
