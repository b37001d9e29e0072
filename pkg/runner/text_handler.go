package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/selim/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Prompt is printed before each read.
	Prompt string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt overrides the input prompt.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can return on ctx cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

// Input prints the prompt and waits for a line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	// Only show prompt if context is not yet done
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		fmt.Fprint(h.Writer, h.Prompt)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimRight(res.text, "\r\n"), nil
	}
}

// Output writes turns. Assistant text goes through the renderer when one is set.
func (h *TextHandler) Output(ctx context.Context, turns ...domain.Turn) error {
	for _, t := range turns {
		if t.Role == domain.RoleUser {
			if _, err := fmt.Fprintf(h.Writer, "Sen: %s\n", t.Text); err != nil {
				return err
			}
			continue
		}
		output := t.Text
		if h.Renderer != nil {
			if rendered, err := h.Renderer(output); err == nil {
				output = rendered
			}
		}
		prefix := "Selim: "
		if t.IsError {
			prefix = "Selim (!): "
		}
		if _, err := fmt.Fprintln(h.Writer, prefix+strings.TrimSpace(output)); err != nil {
			return err
		}
	}
	return nil
}

// Signal prints a short status line for the typing signal.
func (h *TextHandler) Signal(ctx context.Context, name string) error {
	if name == SignalTyping {
		_, err := fmt.Fprintln(h.Writer, "Selim yazıyor...")
		return err
	}
	return nil
}

// SystemOutput writes a bracketed meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[Sistem] %s\n", msg)
	return err
}
