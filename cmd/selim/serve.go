package main

import (
	"github.com/aretw0/selim/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the conversation as a JSON API with a server-sent event stream.
GET /openapi.yaml describes the API and GET /metrics exposes Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		app, err := loadApp(sigCtx, cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.HTTP.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		return cli.Serve(sigCtx, app, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (overrides http.addr)")
}
