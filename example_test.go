package funnel_test

import (
	"context"
	"fmt"
	"log"

	"github.com/sellwise/funnel"
	"github.com/sellwise/funnel/pkg/domain"
	"github.com/sellwise/funnel/pkg/dsl"
)

// Example drives a tiny qualification funnel entirely in memory.
func Example() {
	flow := dsl.NewFlow("demo").
		Stage("intro", domain.CardTypeQualification).
		Block("welcome").
		Message("What brings you here?").
		Option("Grow my business", "pitch").
		End("Just browsing").
		Block("pitch").
		Message("Let's talk growth.").
		End("Thanks").
		Start("welcome").
		MustBuild()

	eng, err := funnel.New("", funnel.WithFlow(flow))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	conv := eng.Start(ctx)
	conv = eng.SubmitText(ctx, conv, "grow")

	for _, msg := range conv.History {
		fmt.Printf("%s: %s\n", msg.Type, msg.Text)
	}
	// Output:
	// bot: What brings you here?
	// user: Grow my business
	// bot: Let's talk growth.
}
