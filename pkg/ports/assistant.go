package ports

import (
	"context"

	"github.com/aretw0/selim/pkg/domain"
)

// Assistant is the remote assistant boundary.
// Implementations must honor ctx cancellation and deadlines.
type Assistant interface {
	// Complete sends one user turn and returns the reply text.
	// An empty reply is not an error at this level; the session manager decides.
	Complete(ctx context.Context, req domain.RemoteRequest) (string, error)
}

// AssistantFunc adapts a function to the Assistant interface.
type AssistantFunc func(ctx context.Context, req domain.RemoteRequest) (string, error)

// Complete calls f.
func (f AssistantFunc) Complete(ctx context.Context, req domain.RemoteRequest) (string, error) {
	return f(ctx, req)
}
