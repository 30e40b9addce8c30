package domain

import "time"

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	// RoleUser marks a turn typed by the user.
	RoleUser TurnRole = "user"
	// RoleAssistant marks a turn produced by the assistant.
	RoleAssistant TurnRole = "assistant"
)

// SourceRef is a pointer to supporting material for an assistant turn.
type SourceRef struct {
	// Label describes the source (e.g. "placements", "official website").
	Label string `json:"label"`
	// Locator is the source URL or page identifier.
	Locator string `json:"locator"`
}

// Turn is one entry in the conversation log. A turn's role and content
// are fixed at creation; only the log as a whole is cleared, on reset.
type Turn struct {
	// ID is unique within a session and monotonically increasing.
	ID int64 `json:"id"`
	// Role is the speaker: user or assistant.
	Role TurnRole `json:"role"`
	// Content is the verbatim text of the turn.
	Content string `json:"content"`
	// CreatedAt is when the turn was appended to the log.
	CreatedAt time.Time `json:"created_at"`
	// Evidence lists supporting sources for an answer, if any.
	Evidence []SourceRef `json:"evidence,omitempty"`
	// Source is the single page/URL pair an answer was grounded on, if any.
	Source *SourceRef `json:"source,omitempty"`
}

// IsUser reports whether the turn was authored by the user.
func (t Turn) IsUser() bool {
	return t.Role == RoleUser
}
