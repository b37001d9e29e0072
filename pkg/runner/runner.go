package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/typo"
)

// Conversation is the part of chat.Conversation the loop drives.
type Conversation interface {
	Send(ctx context.Context, text string) (user, reply domain.Turn, err error)
	Clear(ctx context.Context) (*domain.Transcript, error)
	Transcript() *domain.Transcript
}

var (
	clearCommands = map[string]bool{"/temizle": true, "/clear": true}
	exitCommands  = map[string]bool{"exit": true, "quit": true, "/çık": true, "/cik": true, "/exit": true, "/quit": true}
)

// IsClearCommand reports whether text asks to clear the conversation.
func IsClearCommand(text string) bool {
	return clearCommands[strings.ToLower(strings.TrimSpace(text))]
}

// IsExitCommand reports whether text asks to leave the chat.
func IsExitCommand(text string) bool {
	return exitCommands[strings.ToLower(strings.TrimSpace(text))]
}

// Runner handles the chat loop using the provided IO.
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger
	Typos   *typo.Checker
	Quiet   bool
}

// NewRunner creates a Runner. Without WithInputHandler it chats over Stdin/Stdout as text.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run loops until the user exits, input ends (nil error) or ctx is cancelled (ctx.Err()).
func (r *Runner) Run(ctx context.Context, conv Conversation) error {
	if !r.Quiet {
		if err := r.Handler.Output(ctx, conv.Transcript().Turns...); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	for {
		raw, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		text, err := SanitizeMessage(raw)
		if errors.Is(err, ErrEmptyInput) {
			continue
		}
		if err != nil {
			r.Logger.Warn("input rejected", "error", err, "size", len(raw))
			r.system(ctx, fmt.Sprintf("Mesaj reddedildi: %v", err))
			continue
		}

		switch {
		case IsExitCommand(text):
			return nil
		case IsClearCommand(text):
			t, err := conv.Clear(ctx)
			if err != nil {
				return err
			}
			if err := r.Handler.Output(ctx, t.Turns...); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		if r.Typos != nil {
			if s, ok := r.Typos.Suggest(text); ok {
				r.system(ctx, fmt.Sprintf("Yazım önerisi: %q yerine %q", s.Wrong, s.Correct))
			}
		}

		if err := r.Handler.Signal(ctx, SignalTyping); err != nil {
			r.Logger.Debug("signal failed", "error", err)
		}
		_, reply, err := conv.Send(ctx, text)
		if err != nil {
			return err
		}
		if err := r.Handler.Output(ctx, reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

func (r *Runner) system(ctx context.Context, msg string) {
	if err := r.Handler.SystemOutput(ctx, msg); err != nil {
		r.Logger.Debug("system output failed", "error", err)
	}
}
