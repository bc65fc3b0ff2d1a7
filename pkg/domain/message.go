package domain

import "strings"

// MessageType identifies the author of a transcript entry.
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageBot    MessageType = "bot"
	MessageSystem MessageType = "system"
)

// RedirectToLiveChat is the sentinel text of a system message marking the
// qualification-to-live-handoff transition. It carries no other payload and
// is matched by literal value, not structurally.
const RedirectToLiveChat = "redirect_to_live_chat"

// LinkToken is the placeholder funnel authors embed in block messages where
// the host renders an actual link or button.
const LinkToken = "[LINK]"

// MessageMetadata carries optional provenance for a transcript entry.
type MessageMetadata struct {
	BlockID string `json:"blockId,omitempty"`
}

// Message is a single transcript entry.
type Message struct {
	Type     MessageType      `json:"type"`
	Text     string           `json:"text"`
	Metadata *MessageMetadata `json:"metadata,omitempty"`
}

// IsLiveChatHandoff reports whether this entry is the live-handoff sentinel.
func (m Message) IsLiveChatHandoff() bool {
	return m.Type == MessageSystem && m.Text == RedirectToLiveChat
}

// StripLinkToken removes every [LINK] occurrence from a block message. The
// engine guarantees the token never reaches the final transcript text.
func StripLinkToken(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, LinkToken, ""))
}
