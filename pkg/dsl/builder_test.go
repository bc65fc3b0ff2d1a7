package dsl

import (
	"strings"
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
)

func TestBuilder_FullFlow(t *testing.T) {
	flow, err := NewFlow("onboarding").
		Stage("intro", domain.CardTypeQualification).
		Block("welcome").
		Message("Hi! What brings you here?").
		Option("Grow my business", "goal").
		End("Just browsing").
		Block("goal").
		Message("Ready to see the plan?").
		Option("Show me", "offer_1").
		Stage("offer", domain.CardTypeProduct).
		Block("offer_1").
		Message("Here is the deal. [LINK]").
		Resource("plan-pro", "Pro Plan").
		Upsell("thanks").
		Downsell("discount").
		Timeout(15).
		Block("thanks").Message("Welcome aboard!").
		Block("discount").Message("How about 20% off?").
		Start("welcome").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if flow.StartBlockID != "welcome" {
		t.Errorf("start = %q", flow.StartBlockID)
	}
	if len(flow.Stages) != 2 || len(flow.Stages[0].BlockIDs) != 2 || len(flow.Stages[1].BlockIDs) != 3 {
		t.Errorf("stage layout wrong: %+v", flow.Stages)
	}

	welcome, _ := flow.Block("welcome")
	if len(welcome.Options) != 2 || welcome.Options[1].NextBlockID != "" {
		t.Errorf("options wrong: %+v", welcome.Options)
	}

	offer, _ := flow.Block("offer_1")
	if offer.UpsellBlockID != "thanks" || offer.DownsellBlockID != "discount" || offer.TimeoutMinutes != 15 {
		t.Errorf("timer config wrong: %+v", offer)
	}
	if offer.ResourceID != "plan-pro" || offer.ResourceName != "Pro Plan" {
		t.Errorf("resource wrong: %+v", offer)
	}
}

func TestBuilder_ValidatesOnBuild(t *testing.T) {
	_, err := NewFlow("broken").
		Stage("intro", domain.CardTypeQualification).
		Block("welcome").Message("Hi").Option("Go", "nowhere").
		Start("welcome").
		Build()
	if err == nil || !strings.Contains(err.Error(), "nowhere") {
		t.Errorf("expected validation error naming the dangling target, got %v", err)
	}
}

func TestBuilder_DuplicateBlock(t *testing.T) {
	_, err := NewFlow("dup").
		Stage("s", domain.CardTypeQualification).
		Block("a").Message("one").
		Block("a").Message("two").
		Start("a").
		Build()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestBuilder_NoOpenBlock(t *testing.T) {
	_, err := NewFlow("orphan").
		Message("floating text").
		Build()
	if err == nil {
		t.Error("expected error for configuring without an open block")
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic from MustBuild on invalid flow")
		}
	}()
	NewFlow("broken").Start("ghost").MustBuild()
}
