package runtime

import (
	"context"
	"strings"

	"github.com/sellwise/funnel/pkg/domain"
)

func trimInput(s string) string {
	return strings.TrimSpace(s)
}

// appendMessage records a transcript entry and notifies the message hook.
func (e *Engine) appendMessage(ctx context.Context, conv *domain.Conversation, msg domain.Message) *domain.Conversation {
	conv.History = append(conv.History, msg)
	e.emitMessage(ctx, msg)
	return conv
}

func (e *Engine) emitMessage(ctx context.Context, msg domain.Message) {
	if e.hooks.OnMessage == nil {
		return
	}
	e.hooks.OnMessage(ctx, &domain.MessageEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventMessage},
		Message:   msg,
	})
}

func (e *Engine) emitBlockEnter(ctx context.Context, blockID, stageName string) {
	if e.hooks.OnBlockEnter == nil {
		return
	}
	e.hooks.OnBlockEnter(ctx, &domain.BlockEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventBlockEnter},
		BlockID:   blockID,
		StageName: stageName,
	})
}

func (e *Engine) emitBlockLeave(ctx context.Context, blockID, stageName string) {
	if e.hooks.OnBlockLeave == nil {
		return
	}
	e.hooks.OnBlockLeave(ctx, &domain.BlockEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventBlockLeave},
		BlockID:   blockID,
		StageName: stageName,
	})
}

func (e *Engine) emitTimerResolve(ctx context.Context, blockID, outcome string) {
	if e.hooks.OnTimerResolve == nil {
		return
	}
	e.hooks.OnTimerResolve(ctx, &domain.TimerEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventTimerResolve},
		BlockID:   blockID,
		Outcome:   outcome,
	})
}
