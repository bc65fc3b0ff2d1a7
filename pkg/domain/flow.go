package domain

// Stage card types control how a block's options are surfaced to the user
// (numbered text choices vs. a pure call-to-action). They never change
// graph traversal.
const (
	// CardTypeQualification surfaces options as numbered text choices.
	CardTypeQualification = "qualification"
	// CardTypeProduct surfaces options as call-to-action buttons.
	CardTypeProduct = "product"
)

// StageTransition is the reserved stage name carrying a behavioral contract:
// a block in this stage with exactly one option is auto-selected without
// user input.
const StageTransition = "TRANSITION"

// Stage is a named grouping of block ids.
type Stage struct {
	Name     string   `json:"name" yaml:"name"`
	CardType string   `json:"cardType,omitempty" yaml:"card_type,omitempty"`
	BlockIDs []string `json:"blockIds" yaml:"blocks"`
}

// IsTransition reports whether this stage auto-advances its blocks.
func (s Stage) IsTransition() bool {
	return s.Name == StageTransition
}

// Flow is the whole static funnel graph. It is immutable for the lifetime of
// a conversation and treated as shared read-only input, owned by the caller.
type Flow struct {
	Name         string           `json:"name,omitempty" yaml:"name,omitempty"`
	StartBlockID string           `json:"startBlockId" yaml:"start"`
	Stages       []Stage          `json:"stages" yaml:"stages"`
	Blocks       map[string]Block `json:"blocks" yaml:"blocks"`
}

// Block looks up a block by id. The boolean mirrors map access so dangling
// references can degrade to dead ends instead of panics.
func (f *Flow) Block(id string) (Block, bool) {
	b, ok := f.Blocks[id]
	return b, ok
}

// StageOf returns the first stage containing the given block id.
func (f *Flow) StageOf(blockID string) (Stage, bool) {
	for _, s := range f.Stages {
		for _, id := range s.BlockIDs {
			if id == blockID {
				return s, true
			}
		}
	}
	return Stage{}, false
}

// IsTransitionBlock reports whether the block belongs to a TRANSITION stage.
func (f *Flow) IsTransitionBlock(blockID string) bool {
	s, ok := f.StageOf(blockID)
	return ok && s.IsTransition()
}
