package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/adapters/memory"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/ports"
)

// ClearedText is the only turn left after Clear.
const ClearedText = "Sohbet temizlendi. Tertemiz bir sayfa! 🚀"

// Companion is the part of selim.Companion a Conversation needs.
type Companion interface {
	HandleTurn(ctx context.Context, text string) domain.TurnOutcome
	Reset(ctx context.Context)
	Greeting() string
}

// Conversation holds the transcript and the loading flag.
type Conversation struct {
	companion Companion
	store     ports.TranscriptStore
	logger    *slog.Logger

	// turn is a one-slot semaphore: at most one Send or Clear in flight.
	turn chan struct{}

	mu         sync.RWMutex
	transcript *domain.Transcript
	loading    bool

	events *broadcaster
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithStore sets where the transcript is mirrored. Defaults to an in-memory store.
func WithStore(store ports.TranscriptStore) Option {
	return func(c *Conversation) {
		c.store = store
	}
}

// WithLogger configures a logger for the Conversation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conversation) {
		c.logger = logger
	}
}

// New creates a Conversation. A transcript found in the store is resumed; otherwise the
// transcript starts with the companion's greeting.
func New(ctx context.Context, companion Companion, opts ...Option) (*Conversation, error) {
	c := &Conversation{
		companion: companion,
		store:     memory.NewStore(),
		logger:    logging.NewNop(),
		turn:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.events = newBroadcaster(c.logger)

	t, err := c.store.Load(ctx)
	switch {
	case err == nil && t.Len() > 0:
		c.logger.Info("transcript resumed", "turns", t.Len())
		c.transcript = t
	case err == nil || errors.Is(err, domain.ErrTranscriptNotFound):
		c.transcript = domain.NewTranscript(companion.Greeting())
		if err := c.store.Save(ctx, c.transcript); err != nil {
			return nil, fmt.Errorf("failed to save initial transcript: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return c, nil
}

// Send runs one turn, waiting for any turn already in flight.
// The reply turn is always produced; err is only set when ctx ends before the turn starts.
func (c *Conversation) Send(ctx context.Context, text string) (user, reply domain.Turn, err error) {
	select {
	case c.turn <- struct{}{}:
	case <-ctx.Done():
		return domain.Turn{}, domain.Turn{}, ctx.Err()
	}
	defer func() { <-c.turn }()
	return c.send(ctx, text)
}

// TrySend is Send without waiting: it fails with domain.ErrBusy while a turn is in flight.
func (c *Conversation) TrySend(ctx context.Context, text string) (user, reply domain.Turn, err error) {
	select {
	case c.turn <- struct{}{}:
	default:
		return domain.Turn{}, domain.Turn{}, domain.ErrBusy
	}
	defer func() { <-c.turn }()
	return c.send(ctx, text)
}

func (c *Conversation) send(ctx context.Context, text string) (domain.Turn, domain.Turn, error) {
	user := domain.NewTurn(domain.RoleUser, text)
	c.append(ctx, user, true)

	outcome := c.companion.HandleTurn(ctx, text)

	reply := domain.NewReplyTurn(outcome)
	c.append(ctx, reply, false)
	return user, reply, nil
}

func (c *Conversation) append(ctx context.Context, turn domain.Turn, loading bool) {
	c.mu.Lock()
	c.transcript.Append(turn)
	c.loading = loading
	snapshot := c.transcript.Snapshot()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	c.events.broadcast(Event{Type: EventAppend, Turns: []domain.Turn{turn}, Loading: loading})
}

// Clear resets the remote session, then replaces the transcript with a single turn.
func (c *Conversation) Clear(ctx context.Context) (*domain.Transcript, error) {
	select {
	case c.turn <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.turn }()

	c.companion.Reset(ctx)

	fresh := domain.NewTranscript(ClearedText)
	c.mu.Lock()
	c.transcript = fresh
	c.loading = false
	snapshot := fresh.Snapshot()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	c.events.broadcast(Event{Type: EventReset, Turns: snapshot.Turns})
	c.logger.Info("transcript cleared")
	return snapshot, nil
}

// Transcript returns a copy of the current transcript.
func (c *Conversation) Transcript() *domain.Transcript {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transcript.Snapshot()
}

// Loading reports whether a turn is waiting for its reply.
func (c *Conversation) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Subscribe returns a channel of transcript events and a function that cancels the subscription.
func (c *Conversation) Subscribe() (<-chan Event, func()) {
	return c.events.subscribe()
}

// Subscribers returns the number of active subscriptions.
func (c *Conversation) Subscribers() int {
	return c.events.count()
}

func (c *Conversation) persist(ctx context.Context, t *domain.Transcript) {
	// The in-memory transcript stays authoritative when the store fails.
	if err := c.store.Save(context.WithoutCancel(ctx), t); err != nil {
		c.logger.Warn("failed to persist transcript", "turns", t.Len(), "error", err)
	}
}
