package main

import (
	"github.com/aretw0/selim/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Selim in the terminal",
	Long: `Starts an interactive chat. Type /temizle to clear the conversation and /çık to leave.

With --json, every line of input is a message ({"text": "..."} or plain text) and every
line of output is a JSON event, which makes Selim scriptable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		return runChat(cmd, cli.ChatOptions{JSON: jsonMode, Quiet: quiet})
	},
}

func runChat(cmd *cobra.Command, opts cli.ChatOptions) error {
	app, err := loadApp(cmd.Context(), cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	return cli.RunChat(cmd.Context(), app, opts)
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("json", false, "Read and write newline-delimited JSON")
	chatCmd.Flags().BoolP("quiet", "q", false, "Do not replay the stored transcript on start")
}
