package ports

import (
	"context"
	"testing"

	"github.com/aretw0/selim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTranscriptStoreContract runs a suite of tests to verify that a TranscriptStore
// implementation adheres to the defined interface contract. The store must start empty.
func RunTranscriptStoreContract(t *testing.T, store TranscriptStore) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		tr := domain.NewTranscript("selam")
		tr.Append(domain.NewTurn(domain.RoleUser, "5 + 5"))
		errTurn := domain.NewReplyTurn(domain.TurnOutcome{ReplyText: "hata", IsError: true})
		tr.Append(errTurn)

		require.NoError(t, store.Save(ctx, tr), "Save should not return error")

		loaded, err := store.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		require.Equal(t, 3, loaded.Len())
		for i, turn := range tr.Turns {
			assert.Equal(t, turn.ID, loaded.Turns[i].ID)
			assert.Equal(t, turn.Role, loaded.Turns[i].Role)
			assert.Equal(t, turn.Text, loaded.Turns[i].Text)
			assert.Equal(t, turn.IsError, loaded.Turns[i].IsError)
			assert.True(t, turn.CreatedAt.Equal(loaded.Turns[i].CreatedAt))
		}
	})

	t.Run("Isolation", func(t *testing.T) {
		tr := domain.NewTranscript("selam")
		require.NoError(t, store.Save(ctx, tr))

		tr.Append(domain.NewTurn(domain.RoleUser, "not saved"))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Len(), "mutating the saved value must not affect the store")
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewTranscript("ilk")))
		require.NoError(t, store.Save(ctx, domain.NewTranscript("ikinci")))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		last, ok := loaded.Last()
		require.True(t, ok)
		assert.Equal(t, "ikinci", last.Text)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewTranscript("selam")))
		require.NoError(t, store.Delete(ctx), "Delete should not return error")

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrTranscriptNotFound, "Load after Delete should return ErrTranscriptNotFound")

		assert.NoError(t, store.Delete(ctx), "Delete on a missing transcript should not fail")
	})
}
