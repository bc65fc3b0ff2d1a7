package ports

import (
	"context"
	"testing"
	"time"

	"github.com/sellwise/funnel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunConversationStoreContract runs a suite of tests to verify that a
// ConversationStore implementation adheres to the defined interface contract.
func RunConversationStoreContract(t *testing.T, store ConversationStore) {
	ctx := context.Background()
	convID := "contract-test-conversation-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		conv := domain.NewConversation("welcome")
		conv.History = append(conv.History,
			domain.Message{Type: domain.MessageBot, Text: "Hi there", Metadata: &domain.MessageMetadata{BlockID: "welcome"}},
			domain.Message{Type: domain.MessageUser, Text: "Grow my business"},
		)

		err := store.Save(ctx, convID, conv)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, convID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, conv.CurrentBlockID, loaded.CurrentBlockID)
		assert.Equal(t, conv.Status, loaded.Status)
		require.Len(t, loaded.History, 2)
		assert.Equal(t, "Hi there", loaded.History[0].Text)
		require.NotNil(t, loaded.History[0].Metadata)
		assert.Equal(t, "welcome", loaded.History[0].Metadata.BlockID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+convID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, convID, domain.NewConversation("welcome"))
		require.NoError(t, err)

		err = store.Delete(ctx, convID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, convID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound, "Load after Delete should return ErrConversationNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := convID + "-1"
		id2 := convID + "-2"
		_ = store.Save(ctx, id1, domain.NewConversation("welcome"))
		_ = store.Save(ctx, id2, domain.NewConversation("welcome"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
