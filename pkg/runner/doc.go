/*
Package runner implements the interactive chat loop and its I/O handlers.

It is the bridge between a chat.Conversation and a terminal or a pipe. Input is read through
a pluggable IOHandler, sanitized, checked for typos and sent as a turn; replies are written
back through the same handler.

# Key Components

  - Runner: reads lines, handles the clear and exit commands, and sends turns.
  - IOHandler: decouples how text is read and written (terminal text or JSON Lines).
  - TextHandler: line-based terminal chat with optional markdown rendering.
  - JSONHandler: one JSON object per line in each direction, for scripting.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithTypoChecker(typo.Default()),
	)

	if err := r.Run(ctx, conv); err != nil {
		log.Fatal(err)
	}
*/
package runner
