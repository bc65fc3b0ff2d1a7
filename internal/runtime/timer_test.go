package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
)

// timerFlow starts on a product block whose successor is decided by the
// offer timer rather than an option click.
func timerFlow() *domain.Flow {
	return &domain.Flow{
		StartBlockID: "P",
		Stages: []domain.Stage{
			{Name: "offer", CardType: domain.CardTypeProduct, BlockIDs: []string{"P", "U", "D"}},
		},
		Blocks: map[string]domain.Block{
			"P": {ID: "P", Message: "Here is the deal.", UpsellBlockID: "U", DownsellBlockID: "D", TimeoutMinutes: 15},
			"U": {ID: "U", Message: "Since you bought, here is more."},
			"D": {ID: "D", Message: "How about a discount instead?"},
		},
	}
}

func TestActivateTimer(t *testing.T) {
	e := NewEngine(timerFlow())
	conv := e.Start(context.Background())

	if conv.Terminal() {
		t.Fatal("a block with timer targets must stay active awaiting the timer")
	}

	conv, err := e.ActivateTimer(conv, "P")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !conv.TimerPending("P") {
		t.Error("expected pending timer on P")
	}
}

func TestActivateTimer_NoTargets(t *testing.T) {
	e := NewEngine(welcomeFlow())
	conv := e.Start(context.Background())

	_, err := e.ActivateTimer(conv, "W")
	if !errors.Is(err, domain.ErrNoTimerTarget) {
		t.Errorf("expected ErrNoTimerTarget, got %v", err)
	}

	_, err = e.ActivateTimer(conv, "ghost")
	if !errors.Is(err, domain.ErrNoTimerTarget) {
		t.Errorf("expected ErrNoTimerTarget for unknown block, got %v", err)
	}
}

func TestResolveTimer_Bought(t *testing.T) {
	e := NewEngine(timerFlow())
	conv := e.Start(context.Background())
	conv, _ = e.ActivateTimer(conv, "P")

	conv, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeBought)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !conv.Terminal() {
		// U has no options and no alternates of its own, so it is a dead end.
		t.Error("expected termination on option-less upsell block")
	}
	last := conv.History[len(conv.History)-1]
	if last.Text != "Since you bought, here is more." {
		t.Errorf("expected upsell message last, got %+v", last)
	}
	if conv.OfferTimerBlockID != "" {
		t.Error("timer must be cleared after resolution")
	}
}

func TestResolveTimer_DidntBuyReplacesTrailingBotMessage(t *testing.T) {
	e := NewEngine(timerFlow())
	conv := e.Start(context.Background())
	conv, _ = e.ActivateTimer(conv, "P")

	before := len(conv.History)
	conv, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeDidntBuy)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(conv.History) != before {
		t.Errorf("didn't-buy must replace the trailing bot message, not stack: %d vs %d",
			len(conv.History), before)
	}
	last := conv.History[len(conv.History)-1]
	if last.Text != "How about a discount instead?" {
		t.Errorf("expected downsell message in the same slot, got %+v", last)
	}
}

func TestResolveTimer_MissingTargetClearsSilently(t *testing.T) {
	flow := timerFlow()
	flow.Blocks["P"] = domain.Block{ID: "P", Message: "Deal.", UpsellBlockID: "U"}
	e := NewEngine(flow)
	conv := e.Start(context.Background())
	conv, _ = e.ActivateTimer(conv, "P")

	before := len(conv.History)
	conv, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeDidntBuy)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(conv.History) != before {
		t.Error("missing target must not change the transcript")
	}
	if conv.OfferTimerBlockID != "" {
		t.Error("timer must be cleared even without a target")
	}
	if conv.Terminal() {
		t.Error("conversation stays active at the offer block")
	}
}

func TestResolveTimer_DanglingTargetDegradesGracefully(t *testing.T) {
	flow := timerFlow()
	flow.Blocks["P"] = domain.Block{ID: "P", Message: "Deal.", UpsellBlockID: "nowhere"}
	e := NewEngine(flow)
	conv := e.Start(context.Background())
	conv, _ = e.ActivateTimer(conv, "P")

	conv, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeBought)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !conv.Terminal() {
		t.Error("dangling timer target must terminate")
	}
	last := conv.History[len(conv.History)-1]
	if last.Type != domain.MessageBot || last.Text != ErrorPathMessage {
		t.Errorf("expected error bot line, got %+v", last)
	}
}

func TestResolveTimer_Errors(t *testing.T) {
	e := NewEngine(timerFlow())
	conv := e.Start(context.Background())

	if _, err := e.ResolveTimer(context.Background(), conv, domain.OutcomeBought); !errors.Is(err, domain.ErrNoActiveTimer) {
		t.Errorf("expected ErrNoActiveTimer, got %v", err)
	}

	conv, _ = e.ActivateTimer(conv, "P")
	if _, err := e.ResolveTimer(context.Background(), conv, "shrugged"); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestResolveTimer_ParallelRunsShareNothing(t *testing.T) {
	e := NewEngine(timerFlow())
	base := e.Start(context.Background())
	base, _ = e.ActivateTimer(base, "P")

	bought, err := e.ResolveTimer(context.Background(), base, domain.OutcomeBought)
	if err != nil {
		t.Fatalf("resolve bought: %v", err)
	}
	didnt, err := e.ResolveTimer(context.Background(), base, domain.OutcomeDidntBuy)
	if err != nil {
		t.Fatalf("resolve didn't buy: %v", err)
	}

	if bought.History[len(bought.History)-1].Text == didnt.History[len(didnt.History)-1].Text {
		t.Error("parallel resolutions must land on different branches")
	}
	if !base.TimerPending("P") {
		t.Error("the source snapshot must stay untouched")
	}
}
