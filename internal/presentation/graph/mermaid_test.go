package graph

import (
	"strings"
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
)

func sampleFlow() *domain.Flow {
	return &domain.Flow{
		StartBlockID: "welcome",
		Stages: []domain.Stage{
			{Name: "intro", CardType: domain.CardTypeQualification, BlockIDs: []string{"welcome"}},
			{Name: "offer", CardType: domain.CardTypeProduct, BlockIDs: []string{"offer_1"}},
		},
		Blocks: map[string]domain.Block{
			"welcome": {ID: "welcome", Options: []domain.Option{
				{Text: "Show me the \"deal\"", NextBlockID: "offer_1"},
			}},
			"offer_1": {ID: "offer_1", UpsellBlockID: "more", DownsellBlockID: "less", TimeoutMinutes: 15},
			"more":    {ID: "more"},
			"less":    {ID: "less"},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(sampleFlow(), nil)

	for _, want := range []string{
		"graph TD",
		"subgraph intro",
		"subgraph offer",
		"welcome((\"welcome\"))",
		"-- \"Show me the 'deal'\" --> offer_1",
		"offer_1 -. \"bought\" .-> more",
		"offer_1 -. \"didn't buy\" .-> less",
		"⏱️ 15m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := GenerateMermaid(sampleFlow(), &Overlay{
		VisitedBlocks: []string{"welcome", "welcome"},
		CurrentBlock:  "offer_1",
	})

	if !strings.Contains(out, "class welcome visited;") {
		t.Error("missing visited class")
	}
	if !strings.Contains(out, "class offer_1 current;") {
		t.Error("missing current class")
	}
	if strings.Count(out, "class welcome visited;") != 1 {
		t.Error("visited entries must be deduplicated")
	}
}
