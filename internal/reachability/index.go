// Package reachability answers "does traversing option X eventually reach
// offer O?" for a single flow. It builds a reverse adjacency over option
// edges once and runs one backward BFS per offer id, memoized, so the
// per-option check is a set lookup instead of a forward search on every
// render.
package reachability

import (
	"strings"
	"sync"

	"github.com/sellwise/funnel/pkg/domain"
)

// Index is the per-flow reachability index. It is owned by the engine
// instance that loaded the flow (never a process-global map) and is safe
// for concurrent read-only sharing across conversations of the same flow.
type Index struct {
	flow    *domain.Flow
	reverse map[string][]string // target block id -> blocks with an option into it

	mu    sync.RWMutex
	reach map[string]map[string]bool // offer id -> blocks that can reach it
}

// New builds the index for a flow. The reverse adjacency is computed once;
// per-offer reachable sets are filled lazily.
func New(flow *domain.Flow) *Index {
	idx := &Index{
		flow:    flow,
		reverse: make(map[string][]string),
		reach:   make(map[string]map[string]bool),
	}
	for id, block := range flow.Blocks {
		for _, opt := range block.Options {
			if opt.NextBlockID == "" {
				continue
			}
			idx.reverse[opt.NextBlockID] = append(idx.reverse[opt.NextBlockID], id)
		}
	}
	return idx
}

// OptionsLeadingToOffer returns the indices of the block's options from
// which the offer is still reachable. Output is consumed only for visual
// emphasis; it never alters a transcript or cursor.
func (i *Index) OptionsLeadingToOffer(blockID, offerID string) []int {
	if offerID == "" {
		return nil
	}
	block, ok := i.flow.Block(blockID)
	if !ok {
		return nil
	}

	set := i.reachableSet(offerID)
	if len(set) == 0 {
		return nil
	}

	var indices []int
	for n, opt := range block.Options {
		if opt.NextBlockID == "" {
			continue
		}
		if set[opt.NextBlockID] {
			indices = append(indices, n)
		}
	}
	return indices
}

// Reaches reports whether the offer is reachable starting from blockID.
func (i *Index) Reaches(blockID, offerID string) bool {
	return i.reachableSet(offerID)[blockID]
}

// reachableSet returns the set of block ids from which the offer can be
// reached, computing and caching it on first use. A visited guard makes
// cyclic graphs terminate instead of looping.
func (i *Index) reachableSet(offerID string) map[string]bool {
	i.mu.RLock()
	set, ok := i.reach[offerID]
	i.mu.RUnlock()
	if ok {
		return set
	}

	set = make(map[string]bool)
	var queue []string
	for id := range i.flow.Blocks {
		if i.isOfferBlock(id, offerID) {
			set[id] = true
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, from := range i.reverse[current] {
			if set[from] {
				continue
			}
			set[from] = true
			queue = append(queue, from)
		}
	}

	i.mu.Lock()
	i.reach[offerID] = set
	i.mu.Unlock()
	return set
}

// isOfferBlock matches a block against an offer identifier: either the raw
// id or the conventional "offer_<id>" form.
func (i *Index) isOfferBlock(blockID, offerID string) bool {
	if blockID == offerID {
		return true
	}
	return strings.TrimPrefix(blockID, "offer_") == offerID && strings.HasPrefix(blockID, "offer_")
}
