package services

import (
	"context"

	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/repository"
	"github.com/tanimitra/procurement-service/internal/utils"
)

// EligibilityService computes whether a delivery document may be issued for
// an assignment. It is a pure read-model over assignments and approvals,
// recomputed on every call so it can never drift from the approval state.
type EligibilityService struct {
	assignments repository.AssignmentRepository
	approvals   repository.ApprovalRepository
}

// NewEligibilityService creates a new EligibilityService instance.
func NewEligibilityService(assignments repository.AssignmentRepository, approvals repository.ApprovalRepository) *EligibilityService {
	return &EligibilityService{assignments: assignments, approvals: approvals}
}

// IsEligible reports whether an assignment is ready for shipment. Eligibility
// follows approval existence, not the stored status flag, so a lost close
// write cannot hide a decided assignment from distribution.
func (s *EligibilityService) IsEligible(ctx context.Context, assignmentId string) (*models.Eligibility, error) {
	if assignmentId == "" {
		return nil, models.NewValidationError("missing required parameter: assignmentId")
	}

	exists, err := s.assignments.AssignmentExists(ctx, assignmentId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("assignment not found")
	}

	approved, err := s.approvals.ApprovalExists(ctx, assignmentId)
	if err != nil {
		return nil, err
	}
	return &models.Eligibility{AssignmentID: assignmentId, Eligible: approved}, nil
}

// ListEligibleAssignments returns the assignments ready for delivery-document
// issuance, newest decision first.
func (s *EligibilityService) ListEligibleAssignments(ctx context.Context, limitStr, offsetStr string) ([]models.EligibleAssignment, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.approvals.ListEligibleAssignments(ctx, limit, offset)
}
