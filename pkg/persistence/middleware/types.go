// Package middleware wraps a transcript store to change what reaches the backend:
// redaction of sensitive text and encryption at rest.
package middleware

import "github.com/aretw0/selim/pkg/ports"

// Middleware allows wrapping a TranscriptStore to add behavior.
type Middleware func(ports.TranscriptStore) ports.TranscriptStore

// Chain wraps store so that the first middleware sees calls first.
func Chain(store ports.TranscriptStore, mws ...Middleware) ports.TranscriptStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
