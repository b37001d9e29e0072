package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/selim/pkg/runner"
)

// ErrDegradedReply is returned by Ask when the printed reply is an apology or a fallback.
var ErrDegradedReply = errors.New("reply is degraded")

// Ask sends a single message without a transcript and prints the reply.
func Ask(ctx context.Context, app *App, text string, w io.Writer) error {
	clean, err := runner.SanitizeMessage(text)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	outcome := app.Companion.HandleTurn(ctx, clean)
	fmt.Fprintln(w, outcome.ReplyText)
	if outcome.IsError {
		return fmt.Errorf("%w (source %s)", ErrDegradedReply, outcome.Source)
	}
	return nil
}
