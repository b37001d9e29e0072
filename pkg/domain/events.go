package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurnStart     EventType = "turn_start"
	EventTurnEnd       EventType = "turn_end"
	EventSessionCreate EventType = "session_create"
	EventSessionReset  EventType = "session_reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TurnEvent describes a turn entering or leaving the dispatcher.
type TurnEvent struct {
	EventBase
	Remote   bool          `json:"remote"`
	Outcome  *TurnOutcome  `json:"outcome,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// SessionEvent describes the creation or disposal of a remote session handle.
type SessionEvent struct {
	EventBase
	SessionID string `json:"session_id"`
	Epoch     uint64 `json:"epoch"`
}

// LifecycleHooks defines callbacks for pipeline observability.
type LifecycleHooks struct {
	OnTurnStart     func(context.Context, *TurnEvent)
	OnTurnEnd       func(context.Context, *TurnEvent)
	OnSessionCreate func(context.Context, *SessionEvent)
	OnSessionReset  func(context.Context, *SessionEvent)
}

// Merge combines two hook sets; both callbacks run when both are set.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTurnStart:     chainTurn(h.OnTurnStart, other.OnTurnStart),
		OnTurnEnd:       chainTurn(h.OnTurnEnd, other.OnTurnEnd),
		OnSessionCreate: chainSession(h.OnSessionCreate, other.OnSessionCreate),
		OnSessionReset:  chainSession(h.OnSessionReset, other.OnSessionReset),
	}
}

func chainTurn(a, b func(context.Context, *TurnEvent)) func(context.Context, *TurnEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TurnEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainSession(a, b func(context.Context, *SessionEvent)) func(context.Context, *SessionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *SessionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
