package ports

import (
	"context"

	"github.com/sellwise/funnel/pkg/domain"
)

// ConversationStore defines the interface for persisting conversation
// snapshots. This is what makes "resume from an existing transcript"
// possible across process restarts.
type ConversationStore interface {
	// Save persists the conversation for a given id.
	Save(ctx context.Context, id string, conv *domain.Conversation) error

	// Load retrieves the conversation for a given id.
	// Returns domain.ErrConversationNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Conversation, error)

	// Delete removes the conversation for a given id.
	Delete(ctx context.Context, id string) error

	// List returns the ids of stored conversations.
	List(ctx context.Context) ([]string, error)
}
