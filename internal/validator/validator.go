// Package validator checks flow definitions at authoring time. The runtime
// degrades gracefully around broken graphs; this package exists so authors
// hear about those problems loudly before a user ever does.
package validator

import (
	"fmt"
	"strings"

	"github.com/sellwise/funnel/pkg/domain"
)

// ValidateFlow crawls the flow from its start block and aggregates every
// problem it finds: dangling references, transition blocks that cannot
// auto-advance, and blocks no path reaches.
func ValidateFlow(flow *domain.Flow) error {
	var errors []string

	if flow.StartBlockID == "" {
		errors = append(errors, "flow has no start block")
	} else if _, ok := flow.Block(flow.StartBlockID); !ok {
		errors = append(errors, fmt.Sprintf("start block '%s' not found", flow.StartBlockID))
	}

	// Stage membership must point at real blocks.
	staged := make(map[string]bool)
	for _, stage := range flow.Stages {
		for _, id := range stage.BlockIDs {
			staged[id] = true
			if _, ok := flow.Block(id); !ok {
				errors = append(errors, fmt.Sprintf("stage '%s' lists unknown block '%s'", stage.Name, id))
			}
		}
	}

	visited := crawl(flow)

	for id, block := range flow.Blocks {
		for n, opt := range block.Options {
			if opt.NextBlockID == "" {
				continue
			}
			if _, ok := flow.Block(opt.NextBlockID); !ok {
				errors = append(errors, fmt.Sprintf("block '%s' option %d points at unknown block '%s'", id, n+1, opt.NextBlockID))
			}
		}
		if block.UpsellBlockID != "" {
			if _, ok := flow.Block(block.UpsellBlockID); !ok {
				errors = append(errors, fmt.Sprintf("block '%s' upsell points at unknown block '%s'", id, block.UpsellBlockID))
			}
		}
		if block.DownsellBlockID != "" {
			if _, ok := flow.Block(block.DownsellBlockID); !ok {
				errors = append(errors, fmt.Sprintf("block '%s' downsell points at unknown block '%s'", id, block.DownsellBlockID))
			}
		}

		if flow.IsTransitionBlock(id) && len(block.Options) != 1 {
			errors = append(errors, fmt.Sprintf("transition block '%s' has %d options, needs exactly 1 to auto-advance", id, len(block.Options)))
		}

		if !visited[id] {
			errors = append(errors, fmt.Sprintf("block '%s' is unreachable from the start block", id))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// crawl walks every edge kind (options plus timer alternates) from the
// start block and returns the set of blocks some path can reach.
func crawl(flow *domain.Flow) map[string]bool {
	visited := make(map[string]bool)
	queue := []string{flow.StartBlockID}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		block, ok := flow.Block(currentID)
		if !ok {
			continue
		}
		visited[currentID] = true

		for _, opt := range block.Options {
			if opt.NextBlockID != "" && !visited[opt.NextBlockID] {
				queue = append(queue, opt.NextBlockID)
			}
		}
		if block.UpsellBlockID != "" && !visited[block.UpsellBlockID] {
			queue = append(queue, block.UpsellBlockID)
		}
		if block.DownsellBlockID != "" && !visited[block.DownsellBlockID] {
			queue = append(queue, block.DownsellBlockID)
		}
	}

	return visited
}
