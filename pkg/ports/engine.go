package ports

import (
	"context"

	"github.com/sellwise/funnel/pkg/domain"
)

// StatelessEngine defines the interface for conversation engine cores that
// do not maintain internal state. This is the primary interface used by
// adapters (e.g., HTTP, MCP) that manage conversation snapshots externally
// or per-request.
type StatelessEngine interface {
	// Start creates a fresh conversation at the flow's start block.
	Start(ctx context.Context) *domain.Conversation

	// Resume adopts a caller-supplied snapshot (cursor + transcript).
	Resume(ctx context.Context, snapshot *domain.Conversation) *domain.Conversation

	// SelectOption advances the conversation along the given option.
	SelectOption(ctx context.Context, conv *domain.Conversation, option domain.Option, index int) *domain.Conversation

	// SubmitText resolves free text against the active options and advances
	// on a match.
	SubmitText(ctx context.Context, conv *domain.Conversation, input string) *domain.Conversation

	// ActivateTimer marks a deferred offer decision as pending on a block.
	ActivateTimer(conv *domain.Conversation, blockID string) (*domain.Conversation, error)

	// ResolveTimer applies the bought/didn't-buy outcome of a pending timer.
	ResolveTimer(ctx context.Context, conv *domain.Conversation, outcome domain.TimerOutcome) (*domain.Conversation, error)

	// Options returns the currently offered options, filtered per stage rules.
	Options(conv *domain.Conversation) []domain.Option

	// OptionsLeadingToOffer returns the indices of current options from
	// which the given offer is still reachable.
	OptionsLeadingToOffer(conv *domain.Conversation, offerID string) []int

	// Inspect returns the full flow definition for introspection tools.
	Inspect() (*domain.Flow, error)
}
