package domain

import "time"

// SessionConfig holds the parameters a remote conversation context is bound to.
type SessionConfig struct {
	Model             string
	SystemInstruction string
	Temperature       float64

	// Timeout bounds a single remote call. Zero means no extra bound beyond the transport's.
	Timeout time.Duration
}

// Message is one entry of the remote conversation history.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// RemoteRequest is what the remote assistant boundary receives for a single user turn.
type RemoteRequest struct {
	Model             string
	SystemInstruction string
	Temperature       float64
	History           []Message
	Text              string
}
