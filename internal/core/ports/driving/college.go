package driving

import (
	"context"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

// CollegeService exposes college descriptor lookups outside the chat flow.
type CollegeService interface {
	// Fetch returns the backend's descriptor for a college.
	Fetch(ctx context.Context, collegeID string) (*domain.CollegeInfo, error)
}
