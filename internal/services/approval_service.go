package services

import (
	"context"

	"github.com/tanimitra/procurement-service/internal/authz"
	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/repository"
	"github.com/tanimitra/procurement-service/internal/settings"
)

// ApprovalService selects the single winning offering for an assignment.
// Winner selection is always an explicit actor decision; price on the
// offerings is advisory data for the approver, never an input to an
// algorithm here.
type ApprovalService struct {
	Repo        repository.ApprovalRepository
	assignments repository.AssignmentRepository
	offerings   repository.OfferingRepository
	policy      authz.Policy
}

// NewApprovalService creates a new ApprovalService instance.
func NewApprovalService(repo repository.ApprovalRepository, assignments repository.AssignmentRepository, offerings repository.OfferingRepository, policy authz.Policy) *ApprovalService {
	return &ApprovalService{Repo: repo, assignments: assignments, offerings: offerings, policy: policy}
}

// SubmitApproval records the winner for an assignment and closes it. The
// one-winner invariant rests on the conditional insert in the repository:
// under N concurrent calls exactly one succeeds and the rest get the
// "already decided" conflict.
func (s *ApprovalService) SubmitApproval(ctx context.Context, req models.ApprovalRequest, actor string) (*models.Approval, error) {
	if req.AssignmentID == "" || req.OfferingID == "" || req.ActorID == "" {
		return nil, models.NewValidationError("missing required fields: assignmentId, offeringId or actorId")
	}

	if err := s.policy.Evaluate(ctx, authz.Request{
		Resource: authz.ResourceApproval,
		Action:   authz.ActionDecide,
		Actor:    actor,
	}); err != nil {
		return nil, err
	}

	if settings.Get().IntakePaused {
		return nil, models.NewConflictError("procurement intake is paused")
	}

	assignment, err := s.assignments.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, models.NewNotFoundError("assignment not found")
		}
		return nil, err
	}
	if assignment.Status != models.OpenAssignment {
		return nil, models.NewConflictError("already decided")
	}

	offering, err := s.offerings.GetOffering(ctx, req.OfferingID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, models.NewNotFoundError("offering not found")
		}
		return nil, err
	}
	if offering.AssignmentID != req.AssignmentID {
		return nil, models.NewValidationError("offering does not belong to this assignment")
	}

	approval, err := s.Repo.CreateApproval(ctx, req)
	if err != nil {
		if err == repository.ErrAlreadyDecided {
			return nil, models.NewConflictError("already decided")
		}
		return nil, err
	}

	// The status flag is a cache of "approval exists". If this write is
	// lost, readers still derive Closed from the approval row, so the
	// decision stands either way.
	_ = s.assignments.CloseAssignment(ctx, req.AssignmentID)

	return approval, nil
}

// GetApproval returns the approval for an assignment.
func (s *ApprovalService) GetApproval(ctx context.Context, assignmentId string) (*models.Approval, error) {
	if assignmentId == "" {
		return nil, models.NewValidationError("missing required parameter: assignmentId")
	}
	approval, err := s.Repo.GetApprovalByAssignment(ctx, assignmentId)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, models.NewNotFoundError("approval not found")
		}
		return nil, err
	}
	return approval, nil
}
