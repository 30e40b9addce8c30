// Package tui provides an interactive terminal user interface for CampusQuery.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/campusquery/campusquery-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Conversation is the conversation controller.
	Conversation driving.Conversation
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Conversation == nil {
		return ErrMissingConversation
	}
	return nil
}
