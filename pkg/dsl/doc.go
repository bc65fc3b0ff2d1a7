/*
Package dsl provides a fluent builder for programmatically constructing
funnel flows.

It lets developers define flows using a type-safe builder pattern instead
of external YAML files, which is useful for dynamic flow generation, unit
tests, and IDE autocompletion.

Example usage:

	flow, err := dsl.NewFlow("onboarding").
		Stage("intro", domain.CardTypeQualification).
		Block("welcome").
		Message("Hi! What brings you here?").
		Option("Grow my business", "goal").
		Block("goal").
		Message("Ready to see the plan?").
		Option("Show me", "offer_1").
		Stage("offer", domain.CardTypeProduct).
		Block("offer_1").
		Message("Here is the deal. [LINK]").
		Upsell("thanks").
		Downsell("discount").
		Timeout(15).
		Block("thanks").Message("Welcome aboard!").
		Block("discount").Message("How about 20% off?").
		Start("welcome").
		Build()

The resulting *domain.Flow can be passed to funnel.New via funnel.WithFlow.
*/
package dsl
