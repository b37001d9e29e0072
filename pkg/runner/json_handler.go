package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/selim/pkg/domain"
)

// Message is one JSON line written by JSONHandler.
type Message struct {
	Type    string       `json:"type"`
	Turn    *domain.Turn `json:"turn,omitempty"`
	Name    string       `json:"name,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Message types.
const (
	MessageTurn   = "turn"
	MessageSignal = "signal"
	MessageSystem = "system"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

// Input reads one line. It accepts {"text": "..."}, a JSON string, or raw text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)

	var req struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal([]byte(line), &req); err == nil && req.Text != nil {
		return *req.Text, nil
	}

	// Try to unquote if it's a JSON string
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		return val, nil
	}

	// Fallback: return raw text (e.g. if they just sent plain text)
	return line, nil
}

// Output emits one line per turn.
func (h *JSONHandler) Output(ctx context.Context, turns ...domain.Turn) error {
	for i := range turns {
		if err := h.Encoder.Encode(Message{Type: MessageTurn, Turn: &turns[i]}); err != nil {
			return err
		}
	}
	return nil
}

// Signal emits a signal line.
func (h *JSONHandler) Signal(ctx context.Context, name string) error {
	return h.Encoder.Encode(Message{Type: MessageSignal, Name: name})
}

// SystemOutput emits a system line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: MessageSystem, Message: msg})
}
