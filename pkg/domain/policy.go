package domain

// DisplayPolicy decides, per stage, whether a clicked option is echoed into
// the transcript as a user message. This is callable behavior, not styling:
// it controls transcript content, so the engine owns the decision rather
// than the view layer.
type DisplayPolicy func(stage Stage) bool

// DefaultDisplayPolicy echoes options as user text everywhere except
// TRANSITION stages, whose auto-selected options never appear as user turns.
func DefaultDisplayPolicy(stage Stage) bool {
	return !stage.IsTransition()
}

// NumberedOptions reports whether a stage surfaces options as numbered text
// choices (qualification cards) rather than call-to-action buttons.
func NumberedOptions(stage Stage) bool {
	return stage.CardType != CardTypeProduct
}
