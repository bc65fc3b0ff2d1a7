// Package resolver matches free-text user input against the active block's
// options. Matching is deterministic: exact text, positional number,
// substring, then a fixed synonym table. No natural-language understanding
// beyond that.
package resolver

import (
	"strconv"
	"strings"

	"github.com/sellwise/funnel/pkg/domain"
)

// Match is the result of resolving input against a set of options.
type Match struct {
	Matched bool
	Index   int
}

// synonyms maps a key phrase to the inputs that stand in for it. The key
// itself must appear as a substring of an option's text for that option to
// be selected via this tier.
var synonyms = map[string][]string{
	"yes":      {"y", "yeah", "yep", "sure", "ok", "okay", "agree", "accept"},
	"no":       {"n", "nope", "nah", "disagree", "decline", "reject"},
	"maybe":    {"perhaps", "possibly", "not sure", "dunno"},
	"continue": {"next", "go on", "proceed", "keep going"},
	"back":     {"previous", "go back", "return"},
}

// Resolve maps arbitrary input onto an option index. Tiers are tried in
// order, each only if the previous found nothing; the first match wins.
func Resolve(input string, options []domain.Option) Match {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || len(options) == 0 {
		return Match{}
	}
	lowered := strings.ToLower(trimmed)

	// Tier 1: case-insensitive exact equality.
	for i, opt := range options {
		if strings.EqualFold(trimmed, opt.Text) {
			return Match{Matched: true, Index: i}
		}
	}

	// Tier 2: 1-based position number, range-checked. An out-of-range
	// number is a failed tier, so the lower tiers still get a shot.
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(options) {
		return Match{Matched: true, Index: n - 1}
	}

	// Tier 3: case-insensitive substring, either direction.
	for i, opt := range options {
		text := strings.ToLower(opt.Text)
		if text == "" {
			continue
		}
		if strings.Contains(lowered, text) || strings.Contains(text, lowered) {
			return Match{Matched: true, Index: i}
		}
	}

	// Tier 4: synonym table. The input must be a known stand-in and the
	// synonym key must itself appear inside an option's text.
	for key, variants := range synonyms {
		if !matchesSynonym(lowered, key, variants) {
			continue
		}
		for i, opt := range options {
			if strings.Contains(strings.ToLower(opt.Text), key) {
				return Match{Matched: true, Index: i}
			}
		}
	}

	return Match{}
}

func matchesSynonym(input, key string, variants []string) bool {
	if input == key {
		return true
	}
	for _, v := range variants {
		if input == v {
			return true
		}
	}
	return false
}
