// Package runtime implements the stateless conversation core. Every
// operation takes a conversation snapshot and returns a new one; the engine
// itself holds only the immutable flow, its reachability index, and
// configuration. Graph-integrity problems degrade into the transcript and a
// terminal cursor, never into errors or panics, because flows are
// user-authored content.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/sellwise/funnel/internal/reachability"
	"github.com/sellwise/funnel/pkg/domain"
)

// DefaultDebounceWindow is how long an identical resubmission of the same
// trimmed text is treated as a duplicate and dropped.
const DefaultDebounceWindow = 1000 * time.Millisecond

// Engine walks one flow. It is safe for concurrent use across conversations
// of that flow.
type Engine struct {
	flow     *domain.Flow
	reach    *reachability.Index
	policy   domain.DisplayPolicy
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	debounce time.Duration
	now      func() time.Time
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDisplayPolicy overrides the per-stage user-echo decision.
func WithDisplayPolicy(policy domain.DisplayPolicy) EngineOption {
	return func(e *Engine) {
		if policy != nil {
			e.policy = policy
		}
	}
}

// WithDebounceWindow overrides the duplicate-submission window.
func WithDebounceWindow(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d >= 0 {
			e.debounce = d
		}
	}
}

// WithClock injects a time source. Used by tests to exercise the debounce
// window deterministically.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine bound to a single flow.
func NewEngine(flow *domain.Flow, opts ...EngineOption) *Engine {
	e := &Engine{
		flow:     flow,
		reach:    reachability.New(flow),
		policy:   domain.DefaultDisplayPolicy,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		debounce: DefaultDebounceWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates a fresh conversation at the flow's start block and appends
// its bot message. A dangling start block yields a terminal conversation
// with an empty transcript rather than an error.
func (e *Engine) Start(ctx context.Context) *domain.Conversation {
	conv := domain.NewConversation(e.flow.StartBlockID)

	if _, ok := e.flow.Block(e.flow.StartBlockID); !ok {
		e.logger.Warn("start block not found, conversation is terminal", "block", e.flow.StartBlockID)
		return e.terminate(conv)
	}

	conv = e.enterBlock(ctx, conv, e.flow.StartBlockID, false)
	return e.autoAdvance(ctx, conv)
}

// Resume adopts a caller-supplied snapshot. No new bot message is appended;
// auto-advance still applies so a snapshot parked on a transition block
// moves forward.
func (e *Engine) Resume(ctx context.Context, snapshot *domain.Conversation) *domain.Conversation {
	if snapshot == nil {
		return e.Start(ctx)
	}
	conv := snapshot.Clone()
	if conv.Terminal() {
		return conv
	}
	if _, ok := e.flow.Block(conv.CurrentBlockID); !ok {
		e.logger.Warn("resume cursor not found in flow", "block", conv.CurrentBlockID)
		return e.terminate(conv)
	}
	return e.autoAdvance(ctx, conv)
}

// Options returns the options currently offered to the user. Nil while the
// conversation is terminal, while an offer timer is pending, and on
// transition blocks (those are never answered by the user).
func (e *Engine) Options(conv *domain.Conversation) []domain.Option {
	if conv == nil || conv.Terminal() || conv.OfferTimerBlockID != "" {
		return nil
	}
	block, ok := e.flow.Block(conv.CurrentBlockID)
	if !ok {
		return nil
	}
	if e.flow.IsTransitionBlock(conv.CurrentBlockID) {
		return nil
	}
	return block.Options
}

// OptionsLeadingToOffer returns the indices of the current options from
// which the given offer is still reachable.
func (e *Engine) OptionsLeadingToOffer(conv *domain.Conversation, offerID string) []int {
	if conv == nil || conv.Terminal() {
		return nil
	}
	return e.reach.OptionsLeadingToOffer(conv.CurrentBlockID, offerID)
}

// Inspect returns the flow definition for introspection tools.
func (e *Engine) Inspect() (*domain.Flow, error) {
	return e.flow, nil
}
