package funnel_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sellwise/funnel"
	"github.com/sellwise/funnel/pkg/adapters/memory"
	"github.com/sellwise/funnel/pkg/domain"
	"github.com/sellwise/funnel/pkg/dsl"
)

func onboardingFlow(t *testing.T) *domain.Flow {
	t.Helper()
	flow, err := dsl.NewFlow("onboarding").
		Stage("intro", domain.CardTypeQualification).
		Block("welcome").
		Message("Hi! What brings you here?").
		Option("Grow my business", "offer_1").
		End("Just browsing").
		Stage("offer", domain.CardTypeProduct).
		Block("offer_1").
		Message("Here is the deal.").
		End("Sounds good").
		Start("welcome").
		Build()
	if err != nil {
		t.Fatalf("build flow: %v", err)
	}
	return flow
}

func TestNew_RequiresASource(t *testing.T) {
	if _, err := funnel.New(""); err == nil {
		t.Error("expected error when no path, loader, or flow is given")
	}
}

func TestNew_WithFlow(t *testing.T) {
	eng, err := funnel.New("", funnel.WithFlow(onboardingFlow(t)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	conv := eng.Start(ctx)
	if conv.CurrentBlockID != "welcome" {
		t.Errorf("start block = %q", conv.CurrentBlockID)
	}

	conv = eng.SubmitText(ctx, conv, "grow my business")
	if conv.CurrentBlockID != "offer_1" {
		t.Errorf("after submit block = %q", conv.CurrentBlockID)
	}

	if _, err := eng.Watch(ctx); err == nil {
		t.Error("expected Watch to fail for a static flow")
	}
}

func TestNew_LoaderWithSingleFlow(t *testing.T) {
	loader, err := memory.NewFromFlow("onboarding", onboardingFlow(t))
	if err != nil {
		t.Fatalf("loader: %v", err)
	}

	eng, err := funnel.New("demo", funnel.WithLoader(loader))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	flow, err := eng.Inspect()
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if flow.StartBlockID != "welcome" {
		t.Errorf("start = %q", flow.StartBlockID)
	}

	if _, err := eng.Watch(context.Background()); err == nil {
		t.Error("expected Watch to fail for a non-watchable loader")
	}
}

func TestNew_LoaderWithSeveralFlowsNeedsAnID(t *testing.T) {
	loader := memory.NewLoader(map[string]*domain.Flow{
		"a": onboardingFlow(t),
		"b": onboardingFlow(t),
	})

	if _, err := funnel.New("", funnel.WithLoader(loader)); err == nil {
		t.Error("expected error without WithFlowID")
	}

	eng, err := funnel.New("", funnel.WithLoader(loader), funnel.WithFlowID("b"))
	if err != nil {
		t.Fatalf("new with flow id: %v", err)
	}
	if eng.Loader() != loader {
		t.Error("Loader() should return the injected loader")
	}
}

func TestRunner_ScriptedSession(t *testing.T) {
	eng, err := funnel.New("", funnel.WithFlow(onboardingFlow(t)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	in := strings.NewReader("1\nsounds good\n")
	var out bytes.Buffer
	runner := funnel.NewRunner()
	runner.Input = in
	runner.Output = &out
	runner.Headless = true

	if err := runner.Run(eng); err != nil {
		t.Fatalf("run: %v", err)
	}

	transcript := out.String()
	if !strings.Contains(transcript, "What brings you here?") {
		t.Errorf("missing welcome message in output:\n%s", transcript)
	}
	if !strings.Contains(transcript, "Here is the deal.") {
		t.Errorf("missing offer message in output:\n%s", transcript)
	}
}

func TestRunner_ExitCommand(t *testing.T) {
	eng, err := funnel.New("", funnel.WithFlow(onboardingFlow(t)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	runner := funnel.NewRunner()
	runner.Input = strings.NewReader("exit\n")
	var out bytes.Buffer
	runner.Output = &out

	if err := runner.Run(eng); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Bye!") {
		t.Errorf("missing farewell in output:\n%s", out.String())
	}
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, err := funnel.New("", funnel.WithFlow(onboardingFlow(t)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := funnel.NewRunner().Run(eng); err == nil {
		t.Error("expected error when input is unset")
	}
}
