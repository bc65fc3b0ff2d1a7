/*
Package funnel is a deterministic conversation engine for guided sales flows:
a directed graph of message blocks, grouped into stages, that walks a visitor
from qualification questions to an offer.

# Concept

A funnel is a graph of blocks. Each block carries a bot message and a set of
options; selecting an option moves the conversation to the next block.
Transition stages auto-advance, free text is matched against the visible
options, and offer blocks can defer the bought/didn't-buy decision to a timer.
The engine is stateless: every operation takes a conversation snapshot and
returns a new one, so hosts decide where snapshots live (memory, files,
Redis) and how they travel (CLI, HTTP, MCP).

# Key Features

  - Deterministic execution: the same snapshot and input always produce the
    same transition.
  - Hexagonal architecture: core logic is decoupled from adapters (storage,
    transport, UI).
  - Graceful degradation: authoring mistakes in the graph end the
    conversation with an apology line instead of surfacing errors.
  - Offer tooling: reachability highlighting and upsell/downsell timers.

# Usage

Initialize the engine with a YAML flow definition, or build one in code with
the dsl package and pass it via WithFlow.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/sellwise/funnel"
	)

	func main() {
		eng, err := funnel.New("./flows/onboarding.yaml")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		conv := eng.Start(ctx)

		for !conv.Terminal() {
			for i, opt := range eng.Options(conv) {
				fmt.Printf("%d. %s\n", i+1, opt.Text)
			}
			// In a real app this input comes from the user.
			conv = eng.SubmitText(ctx, conv, "1")
		}
	}
*/
package funnel
