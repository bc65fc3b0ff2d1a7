package runtime

import (
	"context"
	"fmt"

	"github.com/sellwise/funnel/pkg/domain"
)

// ActivateTimer marks a deferred bought/didn't-buy decision as pending on a
// block. The engine never schedules anything itself; firing the timer after
// TimeoutMinutes is the host's concern.
func (e *Engine) ActivateTimer(conv *domain.Conversation, blockID string) (*domain.Conversation, error) {
	if conv == nil || conv.Terminal() {
		return conv.Clone(), domain.ErrNoTimerTarget
	}
	block, ok := e.flow.Block(blockID)
	if !ok {
		return conv.Clone(), fmt.Errorf("activate timer: %w", domain.ErrNoTimerTarget)
	}
	if !block.HasTimerTargets() {
		return conv.Clone(), domain.ErrNoTimerTarget
	}

	next := conv.Clone()
	next.OfferTimerBlockID = blockID
	e.logger.Debug("offer timer armed", "block", blockID, "timeout_minutes", block.TimeoutMinutes)
	return next, nil
}

// ResolveTimer applies the outcome of a pending offer timer: bought takes
// the upsell successor, didn't-buy the downsell one. A missing target for
// the chosen outcome clears the timer with no transcript change. On the
// didn't-buy path a trailing bot message is replaced rather than stacked,
// so the offer slot updates instead of duplicating.
func (e *Engine) ResolveTimer(ctx context.Context, conv *domain.Conversation, outcome domain.TimerOutcome) (*domain.Conversation, error) {
	if conv == nil || conv.Terminal() || conv.OfferTimerBlockID == "" {
		return conv.Clone(), domain.ErrNoActiveTimer
	}
	if !outcome.Valid() {
		return conv.Clone(), fmt.Errorf("resolve timer: unknown outcome %q", outcome)
	}

	next := conv.Clone()
	blockID := next.OfferTimerBlockID
	next.OfferTimerBlockID = ""

	block, ok := e.flow.Block(blockID)
	if !ok {
		e.logger.Warn("timer block vanished from flow", "block", blockID)
		return e.terminate(next), nil
	}

	target := block.UpsellBlockID
	replaceBot := false
	if outcome == domain.OutcomeDidntBuy {
		target = block.DownsellBlockID
		replaceBot = true
	}

	e.emitTimerResolve(ctx, blockID, string(outcome))

	if target == "" {
		e.logger.Debug("timer outcome has no target, clearing", "block", blockID, "outcome", outcome)
		return next, nil
	}

	stage, _ := e.flow.StageOf(blockID)
	e.emitBlockLeave(ctx, blockID, stage.Name)
	next = e.enterBlock(ctx, next, target, replaceBot)
	return e.autoAdvance(ctx, next), nil
}
