package memory

import (
	"context"
	"sync"

	"github.com/aretw0/selim/pkg/domain"
)

// Store implements ports.TranscriptStore in memory.
// Safe for concurrent use.
type Store struct {
	transcript *domain.Transcript
	mu         sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Save keeps a copy of the transcript.
func (s *Store) Save(ctx context.Context, t *domain.Transcript) error {
	// Copy to ensure isolation, similar to serialization
	copied := t.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = copied
	return nil
}

// Load returns a copy of the stored transcript.
func (s *Store) Load(ctx context.Context) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.transcript == nil {
		return nil, domain.ErrTranscriptNotFound
	}
	// Copy on read so the caller can't mutate store state through the pointer
	return s.transcript.Snapshot(), nil
}

// Delete removes the transcript.
func (s *Store) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	return nil
}
