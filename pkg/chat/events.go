package chat

import (
	"log/slog"
	"sync"

	"github.com/aretw0/selim/pkg/domain"
)

// EventType is the kind of transcript change.
type EventType string

const (
	EventAppend EventType = "append"
	EventReset  EventType = "reset"
)

// Event is broadcast to subscribers on every transcript change.
// Turns holds the appended turns, or the whole transcript after a reset.
type Event struct {
	Type    EventType     `json:"type"`
	Turns   []domain.Turn `json:"turns,omitempty"`
	Loading bool          `json:"loading"`
}

// broadcaster fans events out to subscriber channels. Slow subscribers lose events.
type broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

func newBroadcaster(logger *slog.Logger) *broadcaster {
	return &broadcaster{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
	}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)
	b.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, ch)
			close(ch)
		})
	}
}

func (b *broadcaster) broadcast(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// Drop event if channel is full (slow client)
			b.logger.Warn("chat: subscriber buffer full, dropping event", "type", string(e.Type))
		}
	}
}

func (b *broadcaster) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
