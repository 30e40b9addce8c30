package domain

import "time"

// ConversationSnapshot is an immutable copy of session state handed to
// presentation layers. Mutation happens only through controller commands;
// readers never see partially applied transitions.
type ConversationSnapshot struct {
	// Turns is the conversation log in append order.
	Turns []Turn `json:"turns"`
	// Candidates is the current disambiguation batch, if any.
	Candidates []Candidate `json:"candidates,omitempty"`
	// PromptOpen reports whether the confirmation prompt is visible.
	PromptOpen bool `json:"prompt_open"`
	// College is the bound college, or nil while unbound.
	College *College `json:"college,omitempty"`
	// PendingName is the last unresolved utterance text, kept so a later
	// confirmation knows which name it resolved.
	PendingName string `json:"pending_name,omitempty"`
	// InFlight reports whether a backend call is outstanding.
	InFlight bool `json:"in_flight"`
	// LastError is the most recent failure reason, for status displays.
	LastError string `json:"last_error,omitempty"`
}

// Bound reports whether a college has been confirmed for the session.
func (s ConversationSnapshot) Bound() bool {
	return s.College != nil
}

// SessionRecord is the persisted form of a conversation session.
type SessionRecord struct {
	// ID is a UUID assigned when the session is first saved.
	ID string `json:"id"`
	// Name is the user-facing session key (e.g. "default").
	Name string `json:"name"`
	// College is the bound college, or nil if the session was unbound.
	College *College `json:"college,omitempty"`
	// Turns is the conversation log at save time.
	Turns []Turn `json:"turns"`
	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}
