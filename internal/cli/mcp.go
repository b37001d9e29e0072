package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/selim/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the conversation as MCP tools over the given transport.
func ServeMCP(ctx context.Context, app *App, transport string, port int) error {
	conv, err := app.NewConversation(ctx)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(conv, mcp.WithLogger(app.Logger))

	switch transport {
	case TransportStdio:
		app.Logger.Info("starting selim MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		app.Logger.Info("starting selim MCP server (SSE)", "port", port)
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport: %s. Supported: %s, %s", transport, TransportStdio, TransportSSE)
	}
}
