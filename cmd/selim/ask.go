package main

import (
	"strings"

	"github.com/aretw0/selim/internal/cli"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask Selim a single question and print the reply",
	Example: `  selim ask "12 kere 4 kaç eder?"
  selim ask saat kaç`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context(), cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.Ask(cmd.Context(), app, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
