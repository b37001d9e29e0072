package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one exchange unit of the transcript. Turns are never mutated once created.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	IsError   bool      `json:"is_error,omitempty"`
}

// NewTurn creates a Turn with a fresh identifier and the current timestamp.
func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewReplyTurn converts a dispatcher outcome into an assistant Turn.
func NewReplyTurn(outcome TurnOutcome) Turn {
	t := NewTurn(RoleAssistant, outcome.ReplyText)
	t.IsError = outcome.IsError
	return t
}
