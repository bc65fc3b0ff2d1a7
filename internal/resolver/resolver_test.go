package resolver

import (
	"testing"

	"github.com/sellwise/funnel/pkg/domain"
)

func opts(texts ...string) []domain.Option {
	out := make([]domain.Option, len(texts))
	for i, t := range texts {
		out[i] = domain.Option{Text: t}
	}
	return out
}

func TestResolve_ExactMatch(t *testing.T) {
	options := opts("Grow my business", "Just browsing")

	m := Resolve("grow my business", options)
	if !m.Matched || m.Index != 0 {
		t.Errorf("expected exact match at 0, got %+v", m)
	}

	m = Resolve("  Just Browsing  ", options)
	if !m.Matched || m.Index != 1 {
		t.Errorf("expected trimmed exact match at 1, got %+v", m)
	}
}

func TestResolve_PositionalNumber(t *testing.T) {
	options := opts("Yes please", "No thanks")

	m := Resolve("2", options)
	if !m.Matched || m.Index != 1 {
		t.Errorf("expected '2' to select index 1, got %+v", m)
	}

	// Out of range numbers fail the tier without matching anything here.
	m = Resolve("5", options)
	if m.Matched {
		t.Errorf("out-of-range number must not match, got %+v", m)
	}
	m = Resolve("0", options)
	if m.Matched {
		t.Errorf("zero must not match, got %+v", m)
	}
}

func TestResolve_OutOfRangeNumberStillTriesSubstring(t *testing.T) {
	options := opts("Option 5", "Other")

	// "5" exceeds the option count, so the number tier fails, but the
	// substring tier still finds it inside "Option 5".
	m := Resolve("5", options)
	if !m.Matched || m.Index != 0 {
		t.Errorf("expected substring match at 0 after failed number tier, got %+v", m)
	}
}

func TestResolve_NumberBeatsSynonym(t *testing.T) {
	// "1" selects index 0 through the number tier even though "yes"
	// synonym logic would also land there; lower tiers never preempt.
	options := opts("Yes please", "No thanks")

	m := Resolve("1", options)
	if !m.Matched || m.Index != 0 {
		t.Errorf("expected number tier to win, got %+v", m)
	}
}

func TestResolve_Substring(t *testing.T) {
	options := opts("Tell me about pricing", "Talk to a human")

	// Input contained in option text.
	m := Resolve("pricing", options)
	if !m.Matched || m.Index != 0 {
		t.Errorf("expected substring match at 0, got %+v", m)
	}

	// Option text contained in input.
	m = Resolve("please talk to a human right now", options)
	if !m.Matched || m.Index != 1 {
		t.Errorf("expected reverse substring match at 1, got %+v", m)
	}
}

func TestResolve_Synonyms(t *testing.T) {
	options := opts("Yes, sign me up", "No thanks")

	for _, in := range []string{"yep", "sure", "ok", "agree"} {
		m := Resolve(in, options)
		if !m.Matched || m.Index != 0 {
			t.Errorf("Resolve(%q): expected synonym match at 0, got %+v", in, m)
		}
	}

	m := Resolve("nah", options)
	if !m.Matched || m.Index != 1 {
		t.Errorf("expected 'nah' to match 'No thanks', got %+v", m)
	}

	// Synonym key must appear in an option's text; "dunno" has no "maybe"
	// option to land on here.
	m = Resolve("dunno", options)
	if m.Matched {
		t.Errorf("expected no match for 'dunno', got %+v", m)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	options := opts("Grow my business", "Just browsing")

	for _, in := range []string{"", "   ", "quantum flux"} {
		if m := Resolve(in, options); m.Matched {
			t.Errorf("Resolve(%q): expected no match, got %+v", in, m)
		}
	}

	if m := Resolve("anything", nil); m.Matched {
		t.Errorf("empty options must never match, got %+v", m)
	}
}
