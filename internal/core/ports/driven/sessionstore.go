package driven

import (
	"context"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

// SessionStore persists conversation sessions so a bound college and its
// message log survive process restarts. Records are keyed by session name.
type SessionStore interface {
	// Save stores or updates a session record.
	Save(ctx context.Context, record domain.SessionRecord) error

	// Get retrieves a session record by name.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, name string) (*domain.SessionRecord, error)

	// Delete removes a session record. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, name string) error

	// List returns all persisted session records.
	List(ctx context.Context) ([]domain.SessionRecord, error)
}
