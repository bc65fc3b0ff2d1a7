package memory

import (
	"context"
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
	"github.com/sellwise/funnel/pkg/ports"
	portstests "github.com/sellwise/funnel/pkg/ports/tests"
)

func TestStoreContract(t *testing.T) {
	ports.RunConversationStoreContract(t, NewStore())
}

func TestStore_Isolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	conv := domain.NewConversation("welcome")
	conv.History = []domain.Message{{Type: domain.MessageBot, Text: "Hi"}}
	if err := store.Save(ctx, "c1", conv); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the saved pointer must not leak into the store.
	conv.History[0].Text = "mutated"

	loaded, err := store.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.History[0].Text != "Hi" {
		t.Errorf("store leaked caller mutation: %q", loaded.History[0].Text)
	}

	// And vice versa.
	loaded.History[0].Text = "also mutated"
	again, _ := store.Load(ctx, "c1")
	if again.History[0].Text != "Hi" {
		t.Errorf("store leaked loaded-copy mutation: %q", again.History[0].Text)
	}
}

func TestLoaderContract(t *testing.T) {
	flow := &domain.Flow{
		StartBlockID: "welcome",
		Blocks: map[string]domain.Block{
			"welcome": {ID: "welcome", Message: "Hi"},
		},
	}
	loader := NewLoader(map[string]*domain.Flow{"onboarding": flow})
	portstests.FlowLoaderContractTest(t, loader, []string{"onboarding"})
}

func TestNewFromFlow(t *testing.T) {
	if _, err := NewFromFlow("", &domain.Flow{}); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := NewFromFlow("x", nil); err == nil {
		t.Error("expected error for nil flow")
	}

	loader, err := NewFromFlow("x", &domain.Flow{StartBlockID: "a", Blocks: map[string]domain.Block{"a": {ID: "a"}}})
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if _, err := loader.GetFlow("x"); err != nil {
		t.Errorf("get: %v", err)
	}
}
