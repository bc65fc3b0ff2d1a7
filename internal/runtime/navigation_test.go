package runtime

import (
	"context"
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
)

func TestSelectOption_FullScenario(t *testing.T) {
	e := NewEngine(welcomeFlow())
	conv := e.Start(context.Background())

	conv = e.SelectOption(context.Background(), conv, firstOption(t, e, "W"), 0)

	if len(conv.History) != 3 {
		t.Fatalf("expected [bot(W), user, bot(B)], got %d entries", len(conv.History))
	}
	if conv.History[1].Type != domain.MessageUser || conv.History[1].Text != "Grow business" {
		t.Errorf("expected user echo, got %+v", conv.History[1])
	}
	if conv.History[2].Type != domain.MessageBot || conv.History[2].Text != "Great, let's grow." {
		t.Errorf("expected destination bot message, got %+v", conv.History[2])
	}
	if !conv.Terminal() || conv.CurrentBlockID != "" {
		t.Errorf("dead-end destination must terminate, got status=%q cursor=%q", conv.Status, conv.CurrentBlockID)
	}
}

// firstOption fetches a block's first option, so scenario tests read close
// to the interaction they model.
func firstOption(t *testing.T, e *Engine, blockID string) domain.Option {
	t.Helper()
	block, ok := e.flow.Block(blockID)
	if !ok || len(block.Options) == 0 {
		t.Fatalf("block %q has no options", blockID)
	}
	return block.Options[0]
}

func TestSelectOption_EmptyNextTerminatesWithoutBotMessage(t *testing.T) {
	flow := welcomeFlow()
	flow.Blocks["W"] = domain.Block{ID: "W", Message: "Hi", Options: []domain.Option{
		{Text: "Leave"},
	}}
	e := NewEngine(flow)
	conv := e.Start(context.Background())

	conv = e.SelectOption(context.Background(), conv, domain.Option{Text: "Leave"}, 0)
	if !conv.Terminal() {
		t.Error("option without successor must terminate")
	}
	last := conv.History[len(conv.History)-1]
	if last.Type != domain.MessageUser {
		t.Errorf("no bot message may follow an empty-successor option, got %+v", last)
	}
}

func TestSelectOption_DanglingNextDegradesGracefully(t *testing.T) {
	flow := welcomeFlow()
	flow.Blocks["W"] = domain.Block{ID: "W", Message: "Hi", Options: []domain.Option{
		{Text: "Onward", NextBlockID: "nowhere"},
	}}
	e := NewEngine(flow)
	conv := e.Start(context.Background())

	conv = e.SelectOption(context.Background(), conv, domain.Option{Text: "Onward", NextBlockID: "nowhere"}, 0)
	if !conv.Terminal() {
		t.Error("dangling successor must terminate")
	}
	last := conv.History[len(conv.History)-1]
	if last.Type != domain.MessageBot || last.Text != ErrorPathMessage {
		t.Errorf("expected error bot line, got %+v", last)
	}
}

func TestSelectOption_NoOpWhenTerminal(t *testing.T) {
	e := NewEngine(welcomeFlow())
	conv := e.Start(context.Background())
	conv = e.SelectOption(context.Background(), conv, domain.Option{Text: "Grow business", NextBlockID: "B"}, 0)

	before := len(conv.History)
	conv = e.SelectOption(context.Background(), conv, domain.Option{Text: "again", NextBlockID: "B"}, 0)
	if len(conv.History) != before {
		t.Error("selecting on a terminal conversation must not change the transcript")
	}
}

// transitionFlow routes start through a TRANSITION block into a
// qualification stage, which is the live-handoff crossing.
func transitionFlow() *domain.Flow {
	return &domain.Flow{
		StartBlockID: "T",
		Stages: []domain.Stage{
			{Name: domain.StageTransition, BlockIDs: []string{"T"}},
			{Name: "qualify", CardType: domain.CardTypeQualification, BlockIDs: []string{"Q"}},
		},
		Blocks: map[string]domain.Block{
			"T": {ID: "T", Message: "One moment...", Options: []domain.Option{
				{Text: "continue", NextBlockID: "Q"},
			}},
			"Q": {ID: "Q", Message: "An agent will be right with you. What's your name?", Options: []domain.Option{
				{Text: "Tell name", NextBlockID: ""},
			}},
		},
	}
}

func TestAutoAdvance_TransitionWithSentinel(t *testing.T) {
	e := NewEngine(transitionFlow())
	conv := e.Start(context.Background())

	// Start lands on T, which auto-advances into Q without any click.
	if conv.CurrentBlockID != "Q" {
		t.Fatalf("expected auto-advance to Q, got %q", conv.CurrentBlockID)
	}
	if len(conv.History) != 3 {
		t.Fatalf("expected bot(T), sentinel, bot(Q), got %d entries", len(conv.History))
	}
	if !conv.History[1].IsLiveChatHandoff() {
		t.Errorf("expected live-handoff sentinel between bot messages, got %+v", conv.History[1])
	}
	// The auto-selected option never appears as a user turn.
	for _, m := range conv.History {
		if m.Type == domain.MessageUser {
			t.Errorf("transition auto-select must not echo a user message: %+v", m)
		}
	}
}

func TestAutoAdvance_MultiOptionTransitionStops(t *testing.T) {
	flow := transitionFlow()
	flow.Blocks["T"] = domain.Block{ID: "T", Message: "Pick", Options: []domain.Option{
		{Text: "a", NextBlockID: "Q"},
		{Text: "b", NextBlockID: "Q"},
	}}
	e := NewEngine(flow)

	conv := e.Start(context.Background())
	if conv.CurrentBlockID != "T" {
		t.Errorf("transition block with two options must wait for input, cursor=%q", conv.CurrentBlockID)
	}
}

func TestAutoAdvance_CycleGuard(t *testing.T) {
	flow := &domain.Flow{
		StartBlockID: "T1",
		Stages: []domain.Stage{
			{Name: domain.StageTransition, BlockIDs: []string{"T1", "T2"}},
		},
		Blocks: map[string]domain.Block{
			"T1": {ID: "T1", Message: "one", Options: []domain.Option{{Text: "go", NextBlockID: "T2"}}},
			"T2": {ID: "T2", Message: "two", Options: []domain.Option{{Text: "back", NextBlockID: "T1"}}},
		},
	}
	e := NewEngine(flow)

	// Must return rather than spin; the walk stops on the first revisit.
	conv := e.Start(context.Background())
	if conv == nil {
		t.Fatal("expected a conversation back")
	}
	if conv.Terminal() {
		t.Error("cycle guard should stop the walk, not terminate the conversation")
	}
}

func TestSentinel_OnlyOnQualificationCrossing(t *testing.T) {
	flow := transitionFlow()
	// Retarget Q's stage to product: no sentinel expected.
	flow.Stages[1].CardType = domain.CardTypeProduct
	e := NewEngine(flow)

	conv := e.Start(context.Background())
	for _, m := range conv.History {
		if m.IsLiveChatHandoff() {
			t.Error("sentinel must only be inserted when crossing into a qualification stage")
		}
	}
}
