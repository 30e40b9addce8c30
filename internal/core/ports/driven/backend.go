package driven

import (
	"context"
	"errors"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

// BackendGateway is the client's view of the college backend. The four
// operations mirror the backend API: resolve a free-text name to candidate
// websites, confirm one candidate (which triggers indexing), ask a grounded
// question, and fetch a college descriptor.
//
// All failures, transport-level or backend-reported, surface as a
// *GatewayError whose Reason is suitable for showing to the user. A resolve
// that finds nothing is a success with an empty candidate list, not an error.
type BackendGateway interface {
	// Resolve maps a college name to candidate official websites.
	// forceSearch bypasses the backend's known-college shortcut and
	// searches the web directly.
	Resolve(ctx context.Context, name string, forceSearch bool) ([]domain.Candidate, error)

	// Confirm selects a candidate website and triggers backend-side
	// indexing. May be slow on first confirmation of a college.
	Confirm(ctx context.Context, url, name string) (*ConfirmResult, error)

	// Ask answers a question about a confirmed college.
	Ask(ctx context.Context, collegeID, question string) (*Answer, error)

	// FetchCollege returns the backend's descriptor for a college.
	// Used for session restore rather than the primary chat flow.
	FetchCollege(ctx context.Context, collegeID string) (*domain.CollegeInfo, error)
}

// ConfirmResult is the outcome of a successful confirm operation.
type ConfirmResult struct {
	// CollegeID is the backend-assigned identifier for chat requests.
	CollegeID string
	// Status reports how the backend prepared the college
	// (e.g. "ready", "already_exists").
	Status string
	// PagesCount is the number of pages indexed for the college.
	PagesCount int
	// Message is an optional human-readable status line from the backend.
	Message string
}

// Answer is the outcome of a successful ask operation.
type Answer struct {
	// Text is the answer content.
	Text string
	// SourcePage names the page the answer was grounded on, if known.
	SourcePage string
	// SourceURL locates the page the answer was grounded on, if known.
	SourceURL string
	// Sources lists additional supporting material.
	Sources []domain.SourceRef
}

// GatewayError is the uniform failure type for all gateway operations.
// Transport failures (no response at all) and structured backend errors
// both carry a human-readable Reason; callers that phrase user-facing
// messages need only the Reason.
type GatewayError struct {
	// Reason is a human-readable description of the failure.
	Reason string
	// Transport is true when the request never produced a response.
	Transport bool
	// Err is the underlying error, if any.
	Err error
}

// Error returns the failure reason.
func (e *GatewayError) Error() string {
	return e.Reason
}

// Unwrap returns the underlying error.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// FailureReason extracts the user-facing reason from a gateway error.
// Falls back to the error's own message for non-gateway errors.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Reason
	}
	return err.Error()
}
