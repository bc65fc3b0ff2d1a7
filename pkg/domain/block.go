package domain

// Option is one selectable answer on a block. An empty NextBlockID ends the
// branch when selected.
type Option struct {
	Text        string `json:"text" yaml:"text"`
	NextBlockID string `json:"nextBlockId,omitempty" yaml:"next,omitempty"`
}

// Block represents a single conversational turn in the funnel graph.
type Block struct {
	ID string `json:"id" yaml:"id"`

	// Message is the template text shown by the bot. It may contain the
	// [LINK] placeholder, which is stripped before display; resolving it to
	// an actual link is the caller's responsibility.
	Message string `json:"message" yaml:"message"`

	// Options are the ordered successors. Empty options end the branch.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Alternate successors chosen by a deferred timed decision instead of a
	// normal option click (see the offer timer).
	UpsellBlockID   string `json:"upsellBlockId,omitempty" yaml:"upsell,omitempty"`
	DownsellBlockID string `json:"downsellBlockId,omitempty" yaml:"downsell,omitempty"`

	// TimeoutMinutes is the delay before the timed decision is forced. The
	// engine never waits itself; scheduling is the host's concern.
	TimeoutMinutes int `json:"timeoutMinutes,omitempty" yaml:"timeout_minutes,omitempty"`

	// Link to an external offer/product, opaque to the engine.
	ResourceID   string `json:"resourceId,omitempty" yaml:"resource_id,omitempty"`
	ResourceName string `json:"resourceName,omitempty" yaml:"resource_name,omitempty"`
}

// HasTimerTargets reports whether the block declares at least one of the
// upsell/downsell alternates required to activate an offer timer.
func (b Block) HasTimerTargets() bool {
	return b.UpsellBlockID != "" || b.DownsellBlockID != ""
}
