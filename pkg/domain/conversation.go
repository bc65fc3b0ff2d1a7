package domain

import "time"

// Status defines the current mode of a conversation.
type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated" // sink state reached
)

// Conversation is the runtime snapshot of one guided conversation: the
// cursor into the flow plus the accumulated transcript. It is the engine's
// only mutable state; the flow itself is shared and read-only.
type Conversation struct {
	// CurrentBlockID is the active block, or "" once the branch has ended.
	CurrentBlockID string `json:"currentBlockId,omitempty"`

	// Status indicates whether the conversation is running or done.
	Status Status `json:"status"`

	// History is the transcript of exchanged messages.
	History []Message `json:"history"`

	// OfferTimerBlockID is set while a product block's deferred
	// bought/didn't-buy decision is pending, and cleared when resolved.
	OfferTimerBlockID string `json:"offerTimerBlockId,omitempty"`

	// Debounce bookkeeping for text submission. Kept on the conversation so
	// the engine core stays stateless across instances.
	LastInput   string    `json:"lastInput,omitempty"`
	LastInputAt time.Time `json:"lastInputAt,omitzero"`
}

// NewConversation creates a clean conversation starting at a specific block.
func NewConversation(startBlockID string) *Conversation {
	return &Conversation{
		CurrentBlockID: startBlockID,
		Status:         StatusActive,
	}
}

// Terminal reports whether the conversation has reached a sink state.
func (c *Conversation) Terminal() bool {
	return c.Status == StatusTerminated
}

// TimerPending reports whether an offer timer awaits resolution on the
// given block.
func (c *Conversation) TimerPending(blockID string) bool {
	return c.OfferTimerBlockID != "" && c.OfferTimerBlockID == blockID
}

// Clone returns a copy safe for mutation. The history slice is copied;
// messages themselves are value types.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	next := *c
	next.History = make([]Message, len(c.History))
	copy(next.History, c.History)
	return &next
}
