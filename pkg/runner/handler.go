package runner

import (
	"context"

	"github.com/aretw0/selim/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Input reads one message from the user.
	Input(ctx context.Context) (string, error)

	// Output presents transcript turns.
	Output(ctx context.Context, turns ...domain.Turn) error

	// Signal notifies the handler of a transient state (e.g. "typing").
	Signal(ctx context.Context, name string) error

	// SystemOutput presents a meta-message (typo hints, input errors) that is not part of the transcript.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms reply text before it is written, e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)

// SignalTyping is sent while a turn waits for its reply.
const SignalTyping = "typing"
