package runtime

import (
	"context"
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
)

type hookRecorder struct {
	enters   []string
	leaves   []string
	messages []domain.Message
	timers   []string
}

func (r *hookRecorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBlockEnter: func(_ context.Context, ev *domain.BlockEvent) {
			r.enters = append(r.enters, ev.BlockID)
		},
		OnBlockLeave: func(_ context.Context, ev *domain.BlockEvent) {
			r.leaves = append(r.leaves, ev.BlockID)
		},
		OnMessage: func(_ context.Context, ev *domain.MessageEvent) {
			r.messages = append(r.messages, ev.Message)
		},
		OnTimerResolve: func(_ context.Context, ev *domain.TimerEvent) {
			r.timers = append(r.timers, ev.Outcome)
		},
	}
}

func TestHooks_NavigationLifecycle(t *testing.T) {
	rec := &hookRecorder{}
	e := NewEngine(welcomeFlow(), WithLifecycleHooks(rec.hooks()))

	conv := e.Start(context.Background())
	if len(rec.enters) != 1 || rec.enters[0] != "W" {
		t.Errorf("expected enter event for W, got %v", rec.enters)
	}

	e.SelectOption(context.Background(), conv, firstOption(t, e, "W"), 0)
	if len(rec.leaves) != 1 || rec.leaves[0] != "W" {
		t.Errorf("expected leave event for W, got %v", rec.leaves)
	}
	if len(rec.enters) != 2 || rec.enters[1] != "B" {
		t.Errorf("expected enter event for B, got %v", rec.enters)
	}
	// bot(W), user echo, bot(B)
	if len(rec.messages) != 3 {
		t.Errorf("expected 3 message events, got %d", len(rec.messages))
	}
}

func TestHooks_TimerLifecycle(t *testing.T) {
	rec := &hookRecorder{}
	e := NewEngine(timerFlow(), WithLifecycleHooks(rec.hooks()))

	conv := e.Start(context.Background())
	conv, _ = e.ActivateTimer(conv, "P")
	if _, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeBought); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(rec.timers) != 1 || rec.timers[0] != string(domain.OutcomeBought) {
		t.Errorf("expected one bought resolution event, got %v", rec.timers)
	}
}

func TestHooks_ReplacedBotMessageStillEmits(t *testing.T) {
	rec := &hookRecorder{}
	e := NewEngine(timerFlow(), WithLifecycleHooks(rec.hooks()))

	conv := e.Start(context.Background())
	conv, _ = e.ActivateTimer(conv, "P")
	before := len(rec.messages)
	if _, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeDidntBuy); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(rec.messages) != before+1 {
		t.Errorf("a replaced bot message still produces a message event, got %d new",
			len(rec.messages)-before)
	}
}
