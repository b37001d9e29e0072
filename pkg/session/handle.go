package session

import (
	"sync"
	"time"

	"github.com/aretw0/selim/pkg/domain"
)

// Handle is a remote conversation context. Its identity never survives a reset.
type Handle struct {
	id        string
	epoch     uint64
	config    domain.SessionConfig
	createdAt time.Time

	mu      sync.Mutex
	history []domain.Message
}

// ID returns the unique identifier of the handle.
func (h *Handle) ID() string { return h.id }

// Epoch returns the reset epoch the handle was created in.
func (h *Handle) Epoch() uint64 { return h.epoch }

// Config returns the model parameters the handle is bound to.
func (h *Handle) Config() domain.SessionConfig { return h.config }

// CreatedAt returns the construction time.
func (h *Handle) CreatedAt() time.Time { return h.createdAt }

// History returns a copy of the exchanged messages.
func (h *Handle) History() []domain.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Message, len(h.history))
	copy(out, h.history)
	return out
}

func (h *Handle) request(text string) domain.RemoteRequest {
	return domain.RemoteRequest{
		Model:             h.config.Model,
		SystemInstruction: h.config.SystemInstruction,
		Temperature:       h.config.Temperature,
		History:           h.History(),
		Text:              text,
	}
}

func (h *Handle) record(userText, reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history,
		domain.Message{Role: domain.RoleUser, Text: userText},
		domain.Message{Role: domain.RoleAssistant, Text: reply},
	)
}
