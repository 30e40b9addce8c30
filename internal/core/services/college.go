package services

import (
	"context"
	"strings"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driving"
)

// Ensure CollegeService implements the interface.
var _ driving.CollegeService = (*CollegeService)(nil)

// CollegeService exposes college descriptor lookups outside the chat flow.
type CollegeService struct {
	backend driven.BackendGateway
}

// NewCollegeService creates a new college lookup service.
func NewCollegeService(backend driven.BackendGateway) *CollegeService {
	return &CollegeService{backend: backend}
}

// Fetch returns the backend's descriptor for a college.
func (s *CollegeService) Fetch(ctx context.Context, collegeID string) (*domain.CollegeInfo, error) {
	collegeID = strings.TrimSpace(collegeID)
	if collegeID == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.backend == nil {
		return nil, domain.ErrBackendUnavailable
	}
	return s.backend.FetchCollege(ctx, collegeID)
}
