package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/internal/presentation/tui"
	"github.com/aretw0/selim/pkg/runner"
	"github.com/aretw0/selim/pkg/typo"
	"golang.org/x/term"
)

// ChatOptions configures an interactive chat.
type ChatOptions struct {
	JSON  bool
	Quiet bool

	// In and Out default to Stdin and Stdout.
	In  io.Reader
	Out io.Writer
}

// RunChat runs the terminal chat until the user leaves or a signal arrives.
func RunChat(parent context.Context, app *App, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	tty := isTerminal(opts.Out)
	quiet := opts.Quiet || opts.JSON

	if !quiet && tty {
		tui.PrintBanner(opts.Out, selim.Version, app.Companion.Remote())
	}

	sigCtx := NewSignalContext(parent)
	defer sigCtx.Cancel()

	conv, err := app.NewConversation(sigCtx)
	if err != nil {
		return err
	}

	r := runner.NewRunner(createRunnerOptions(app, opts, tty)...)
	runErr := r.Run(sigCtx, conv)

	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}
	logCompletion(opts.Out, runErr, quiet, sigCtx.Signal())
	return handleExecutionError(runErr)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(app *App, opts ChatOptions, tty bool) []runner.Option {
	ro := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithQuiet(opts.Quiet),
	}

	if opts.JSON {
		ro = append(ro, runner.WithInputHandler(runner.NewJSONHandler(opts.In, opts.Out)))
		return ro
	}

	var handlerOpts []runner.TextHandlerOption
	if tty {
		if render, err := tui.NewRenderer(terminalWidth(opts.Out)); err == nil {
			handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(render))
		} else {
			app.Logger.Warn("markdown renderer unavailable", "err", err)
		}
	}
	ro = append(ro,
		runner.WithInputHandler(runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)),
		runner.WithTypoChecker(typo.Default()),
	)
	return ro
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
