package domain

import "errors"

var (
	// ErrEmptyExpression is returned when a normalized arithmetic expression is too short to be a calculation.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrMalformedExpression is returned on syntax errors or non-finite results.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrRemote is returned when the remote assistant call fails, times out or replies with nothing.
	ErrRemote = errors.New("remote assistant error")

	// ErrEmptyReply marks a remote call that succeeded at the transport level but carried no text.
	ErrEmptyReply = errors.New("empty reply")

	// ErrNoCredential is raised when remote dispatch is attempted without a configured credential.
	ErrNoCredential = errors.New("no remote credential configured")

	// ErrTranscriptNotFound is returned when a transcript key cannot be found in the store.
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrBusy is returned when a turn is already in flight for the conversation.
	ErrBusy = errors.New("a turn is already in flight")
)
