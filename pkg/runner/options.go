package runner

import (
	"log/slog"

	"github.com/aretw0/selim/pkg/typo"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithTypoChecker enables typo hints before each turn.
func WithTypoChecker(c *typo.Checker) Option {
	return func(r *Runner) {
		r.Typos = c
	}
}

// WithQuiet suppresses the replay of the existing transcript on start.
func WithQuiet(quiet bool) Option {
	return func(r *Runner) {
		r.Quiet = quiet
	}
}
