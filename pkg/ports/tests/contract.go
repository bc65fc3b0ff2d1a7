package tests

import (
	"testing"

	"github.com/sellwise/funnel/pkg/ports"
)

// FlowLoaderContractTest is a reusable test suite that verifies if an
// adapter complies with ports.FlowLoader.
func FlowLoaderContractTest(t *testing.T, loader ports.FlowLoader, expectedIDs []string) {
	t.Helper()

	t.Run("GetFlow_Success", func(t *testing.T) {
		for _, id := range expectedIDs {
			flow, err := loader.GetFlow(id)
			if err != nil {
				t.Fatalf("unexpected error getting flow %s: %v", id, err)
			}
			if flow == nil {
				t.Fatalf("flow %s is nil", id)
			}
			if flow.StartBlockID == "" {
				t.Errorf("flow %s has no start block", id)
			}
		}
	})

	t.Run("GetFlow_NotFound", func(t *testing.T) {
		_, err := loader.GetFlow("non-existent-flow")
		if err == nil {
			t.Error("expected error for non-existent flow, got nil")
		}
	})

	t.Run("ListFlows", func(t *testing.T) {
		ids, err := loader.ListFlows()
		if err != nil {
			t.Fatalf("unexpected error listing flows: %v", err)
		}

		if len(ids) != len(expectedIDs) {
			t.Errorf("expected %d flows, got %d", len(expectedIDs), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for _, id := range expectedIDs {
			if !lookup[id] {
				t.Errorf("flow %s missing from list", id)
			}
		}
	})
}
