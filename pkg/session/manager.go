package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/ports"
	"github.com/google/uuid"
)

// Manager owns the single live Handle.
// A nil assistant means no credential is configured and GetSession must not be called.
type Manager struct {
	assistant ports.Assistant
	config    domain.SessionConfig

	mu     sync.Mutex // guards handle and epoch
	handle *Handle
	epoch  uint64

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithConfig overrides the model parameters new handles are bound to.
func WithConfig(cfg domain.SessionConfig) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithLifecycleHooks registers session lifecycle callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager that talks to assistant.
func NewManager(assistant ports.Assistant, opts ...Option) *Manager {
	m := &Manager{
		assistant: assistant,
		config:    DefaultConfig(),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Remote reports whether a remote assistant is configured.
func (m *Manager) Remote() bool {
	return m.assistant != nil
}

// GetSession returns the live handle, creating it on first use.
// It panics with domain.ErrNoCredential when no assistant is configured.
func (m *Manager) GetSession(ctx context.Context) *Handle {
	if m.assistant == nil {
		panic(domain.ErrNoCredential)
	}

	m.mu.Lock()
	if m.handle != nil {
		h := m.handle
		m.mu.Unlock()
		return h
	}
	h := &Handle{
		id:        uuid.NewString(),
		epoch:     m.epoch,
		config:    m.config,
		createdAt: m.now(),
	}
	m.handle = h
	m.mu.Unlock()

	m.logger.Debug("remote session created", "session_id", h.id, "epoch", h.epoch, "model", h.config.Model)
	if m.hooks.OnSessionCreate != nil {
		m.hooks.OnSessionCreate(ctx, m.sessionEvent(domain.EventSessionCreate, h))
	}
	return h
}

// Current returns the live handle without creating one.
func (m *Manager) Current() (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle, m.handle != nil
}

// Epoch returns the number of resets that discarded a live handle.
func (m *Manager) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// Reset discards the live handle. It is a no-op when none exists.
func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	h := m.handle
	if h == nil {
		m.mu.Unlock()
		return
	}
	m.handle = nil
	m.epoch++
	m.mu.Unlock()

	m.logger.Debug("remote session reset", "session_id", h.id, "epoch", h.epoch)
	if m.hooks.OnSessionReset != nil {
		m.hooks.OnSessionReset(ctx, m.sessionEvent(domain.EventSessionReset, h))
	}
}

// Send delivers text as the next user message of h and returns the reply.
// Any failure, including an empty reply or the configured timeout, wraps domain.ErrRemote.
func (m *Manager) Send(ctx context.Context, h *Handle, text string) (string, error) {
	if m.assistant == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRemote, domain.ErrNoCredential)
	}
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	reply, err := m.assistant.Complete(ctx, h.request(text))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRemote, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrRemote, domain.ErrEmptyReply)
	}

	h.record(text, reply)
	return reply, nil
}

func (m *Manager) sessionEvent(t domain.EventType, h *Handle) *domain.SessionEvent {
	return &domain.SessionEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), Type: t},
		SessionID: h.id,
		Epoch:     h.epoch,
	}
}
