package ports

import (
	"context"

	"github.com/aretw0/selim/pkg/domain"
)

// TranscriptStore persists the transcript of the active conversation.
// There is exactly one conversation per store.
type TranscriptStore interface {
	// Save replaces the stored transcript.
	Save(ctx context.Context, t *domain.Transcript) error

	// Load retrieves the stored transcript.
	// Returns domain.ErrTranscriptNotFound if nothing has been saved.
	Load(ctx context.Context) (*domain.Transcript, error)

	// Delete removes the stored transcript. Deleting a missing transcript is not an error.
	Delete(ctx context.Context) error
}
