package driving

import (
	"context"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

// Conversation is the command surface of the conversation controller.
// Presentation layers dispatch commands and read immutable snapshots;
// they never mutate session state directly.
//
// Commands are applied as atomic transitions. Backend failures are
// reported inside the conversation as assistant turns, not as errors;
// validation failures (empty input, stale candidate, wrong phase) are
// silent no-ops. Each command blocks until its transition, including any
// backend call, has been applied.
type Conversation interface {
	// SubmitUtterance processes one line of user input. While unbound it
	// resolves the text as a college name; once bound it asks the text as
	// a question about the bound college. Dropped silently if another
	// command is in flight.
	SubmitUtterance(ctx context.Context, text string)

	// ConfirmCandidate selects one candidate from the current batch and
	// triggers backend preparation. A candidate not in the current batch
	// is ignored.
	ConfirmCandidate(ctx context.Context, candidate domain.Candidate)

	// RejectCandidates discards the current batch and invites a new name.
	// A no-op unless the confirmation prompt is open.
	RejectCandidates()

	// RequestBroaderSearch re-resolves the pending name with the backend's
	// web search. A no-op unless the confirmation prompt is open.
	RequestBroaderSearch(ctx context.Context)

	// ResetSession clears all session state. Always succeeds; an
	// in-flight response arriving afterwards is discarded.
	ResetSession()

	// RestoreSession rebinds a previously persisted session, refreshing
	// the college descriptor from the backend when one was bound.
	RestoreSession(ctx context.Context, name string) error

	// Snapshot returns an immutable copy of the session state.
	Snapshot() domain.ConversationSnapshot
}
