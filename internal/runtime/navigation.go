package runtime

import (
	"context"

	"github.com/sellwise/funnel/internal/resolver"
	"github.com/sellwise/funnel/pkg/domain"
)

// ErrorPathMessage is appended as a bot line when a selected option points
// at a block that does not exist. The conversation then terminates.
const ErrorPathMessage = "This path encountered an error. Please start over or contact support."

// GuidanceMessage is appended as a bot line when free text matches no
// option. No transition happens.
const GuidanceMessage = "Sorry, I didn't catch that. Please choose one of the options above."

// maxAutoAdvanceSteps bounds the synchronous transition walk as a second
// line of defense behind the visited-set cycle guard.
const maxAutoAdvanceSteps = 128

// SelectOption advances the conversation along the given option. The user
// echo is governed by the display policy of the block being left.
func (e *Engine) SelectOption(ctx context.Context, conv *domain.Conversation, option domain.Option, index int) *domain.Conversation {
	if conv == nil || conv.Terminal() || conv.OfferTimerBlockID != "" {
		return conv.Clone()
	}

	next := conv.Clone()
	next = e.selectOptionInternal(ctx, next, option, index)
	return e.autoAdvance(ctx, next)
}

// selectOptionInternal performs one transition without the trailing
// auto-advance, so the advance loop can reuse it per step.
func (e *Engine) selectOptionInternal(ctx context.Context, conv *domain.Conversation, option domain.Option, index int) *domain.Conversation {
	fromID := conv.CurrentBlockID
	fromStage, _ := e.flow.StageOf(fromID)

	if e.policy(fromStage) {
		conv = e.appendMessage(ctx, conv, domain.Message{
			Type:     domain.MessageUser,
			Text:     option.Text,
			Metadata: &domain.MessageMetadata{BlockID: fromID},
		})
	}

	e.emitBlockLeave(ctx, fromID, fromStage.Name)

	// An option without a successor ends the branch.
	if option.NextBlockID == "" {
		e.logger.Debug("branch ended by option", "block", fromID, "option", index)
		return e.terminate(conv)
	}

	if _, ok := e.flow.Block(option.NextBlockID); !ok {
		e.logger.Warn("option points at unknown block", "block", fromID, "next", option.NextBlockID)
		conv = e.appendMessage(ctx, conv, domain.Message{Type: domain.MessageBot, Text: ErrorPathMessage})
		return e.terminate(conv)
	}

	// Leaving a transition stage into a qualification stage marks the
	// hand-off point to a live operator.
	if fromStage.IsTransition() {
		if destStage, ok := e.flow.StageOf(option.NextBlockID); ok && destStage.CardType == domain.CardTypeQualification {
			conv = e.appendMessage(ctx, conv, domain.Message{
				Type: domain.MessageSystem,
				Text: domain.RedirectToLiveChat,
			})
		}
	}

	return e.enterBlock(ctx, conv, option.NextBlockID, false)
}

// SubmitText resolves free text against the active block's options.
// Identical trimmed input repeated inside the debounce window is dropped,
// guarding against double-submit races from UIs.
func (e *Engine) SubmitText(ctx context.Context, conv *domain.Conversation, input string) *domain.Conversation {
	if conv == nil || conv.Terminal() || conv.OfferTimerBlockID != "" {
		return conv.Clone()
	}

	next := conv.Clone()
	trimmed, now := trimInput(input), e.now()
	if trimmed != "" && trimmed == next.LastInput && now.Sub(next.LastInputAt) < e.debounce {
		e.logger.Debug("duplicate submission dropped", "block", next.CurrentBlockID)
		return next
	}
	next.LastInput = trimmed
	next.LastInputAt = now

	block, ok := e.flow.Block(next.CurrentBlockID)
	if !ok {
		return e.terminate(next)
	}

	if m := resolver.Resolve(input, block.Options); m.Matched {
		next = e.selectOptionInternal(ctx, next, block.Options[m.Index], m.Index)
		return e.autoAdvance(ctx, next)
	}

	// The echo keeps the user's literal text; only whitespace-only input
	// produces no echo at all.
	if trimmed != "" {
		next = e.appendMessage(ctx, next, domain.Message{
			Type:     domain.MessageUser,
			Text:     input,
			Metadata: &domain.MessageMetadata{BlockID: next.CurrentBlockID},
		})
	}
	next = e.appendMessage(ctx, next, domain.Message{Type: domain.MessageBot, Text: GuidanceMessage})
	return next
}

// enterBlock moves the cursor onto a block and appends its bot message.
// When replaceBot is set and the trailing transcript entry is a bot
// message, the new message overwrites it instead of stacking.
func (e *Engine) enterBlock(ctx context.Context, conv *domain.Conversation, blockID string, replaceBot bool) *domain.Conversation {
	block, ok := e.flow.Block(blockID)
	if !ok {
		conv = e.appendMessage(ctx, conv, domain.Message{Type: domain.MessageBot, Text: ErrorPathMessage})
		return e.terminate(conv)
	}

	conv.CurrentBlockID = blockID
	stage, _ := e.flow.StageOf(blockID)
	e.emitBlockEnter(ctx, blockID, stage.Name)

	msg := domain.Message{
		Type:     domain.MessageBot,
		Text:     domain.StripLinkToken(block.Message),
		Metadata: &domain.MessageMetadata{BlockID: blockID},
	}
	if replaceBot && len(conv.History) > 0 && conv.History[len(conv.History)-1].Type == domain.MessageBot {
		conv.History[len(conv.History)-1] = msg
		e.emitMessage(ctx, msg)
	} else {
		conv = e.appendMessage(ctx, conv, msg)
	}

	// A block with no options is a dead end unless an offer timer can still
	// pick a successor.
	if len(block.Options) == 0 && !block.HasTimerTargets() && !conv.TimerPending(blockID) {
		return e.terminate(conv)
	}
	return conv
}

// autoAdvance steps synchronously through transition blocks that carry
// exactly one option. Blocks with zero or multiple options stop the walk; a
// revisited block stops it too so malformed cycles cannot spin.
func (e *Engine) autoAdvance(ctx context.Context, conv *domain.Conversation) *domain.Conversation {
	visited := make(map[string]bool)
	for steps := 0; steps < maxAutoAdvanceSteps; steps++ {
		if conv.Terminal() || conv.OfferTimerBlockID != "" {
			return conv
		}
		id := conv.CurrentBlockID
		if !e.flow.IsTransitionBlock(id) {
			return conv
		}
		block, ok := e.flow.Block(id)
		if !ok || len(block.Options) != 1 {
			return conv
		}
		if visited[id] {
			e.logger.Warn("transition cycle detected, stopping auto-advance", "block", id)
			return conv
		}
		visited[id] = true
		conv = e.selectOptionInternal(ctx, conv, block.Options[0], 0)
	}
	e.logger.Warn("auto-advance step limit reached", "block", conv.CurrentBlockID)
	return conv
}

// terminate parks the conversation in its sink state.
func (e *Engine) terminate(conv *domain.Conversation) *domain.Conversation {
	conv.Status = domain.StatusTerminated
	conv.CurrentBlockID = ""
	conv.OfferTimerBlockID = ""
	return conv
}
