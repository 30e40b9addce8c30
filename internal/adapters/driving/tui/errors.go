package tui

import "errors"

// ErrMissingConversation is returned when the conversation controller is not provided.
var ErrMissingConversation = errors.New("tui: conversation controller is required")
