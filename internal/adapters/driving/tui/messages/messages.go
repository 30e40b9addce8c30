// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

// CommandCompleted carries the conversation snapshot after a command,
// including any backend call it triggered, has been applied.
type CommandCompleted struct {
	Snapshot domain.ConversationSnapshot
}

// SessionRestored signals that a persisted session was restored.
type SessionRestored struct {
	Snapshot domain.ConversationSnapshot
}

// ErrorOccurred signals an adapter-level failure, such as a session
// restore that could not complete.
type ErrorOccurred struct {
	Err error
}
