package services

import (
	"context"
	"fmt"

	"github.com/tanimitra/procurement-service/internal/authz"
	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/repository"
	"github.com/tanimitra/procurement-service/internal/utils"
)

// AssignmentService owns creation, lookup and status of procurement
// assignments and their requested line items.
type AssignmentService struct {
	Repo   repository.AssignmentRepository
	policy authz.Policy
}

// NewAssignmentService creates a new AssignmentService instance.
func NewAssignmentService(repo repository.AssignmentRepository, policy authz.Policy) *AssignmentService {
	return &AssignmentService{Repo: repo, policy: policy}
}

// CreateAssignment creates a new open assignment from a visit reference.
func (s *AssignmentService) CreateAssignment(ctx context.Context, req models.AssignmentRequest, actor string) (*models.Assignment, error) {
	if req.VisitID == "" {
		return nil, models.NewValidationError("missing required field: visitId")
	}
	if err := validateLineItems(req.Items); err != nil {
		return nil, err
	}

	if err := s.policy.Evaluate(ctx, authz.Request{
		Resource: authz.ResourceAssignment,
		Action:   authz.ActionCreate,
		Actor:    actor,
	}); err != nil {
		return nil, err
	}

	return s.Repo.CreateAssignment(ctx, req)
}

// GetAssignment returns an assignment with its line items.
func (s *AssignmentService) GetAssignment(ctx context.Context, assignmentId string) (*models.Assignment, error) {
	if assignmentId == "" {
		return nil, models.NewValidationError("missing required parameter: assignmentId")
	}
	assignment, err := s.Repo.GetAssignment(ctx, assignmentId)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, models.NewNotFoundError("assignment not found")
		}
		return nil, err
	}
	return assignment, nil
}

// GetAssignmentStatus returns the status of an assignment.
func (s *AssignmentService) GetAssignmentStatus(ctx context.Context, assignmentId string) (models.AssignmentStatus, error) {
	assignment, err := s.GetAssignment(ctx, assignmentId)
	if err != nil {
		return "", err
	}
	return assignment.Status, nil
}

// ListAssignments returns assignments ordered by creation time descending.
func (s *AssignmentService) ListAssignments(ctx context.Context, limitStr, offsetStr string, filter models.AssignmentFilter) ([]models.Assignment, error) {
	for _, status := range filter.Statuses {
		assignmentStatus := models.AssignmentStatus(status)
		if assignmentStatus != models.OpenAssignment && assignmentStatus != models.ClosedAssignment {
			return nil, models.NewValidationError(fmt.Sprintf("unsupported status: %s", status))
		}
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.Repo.ListAssignments(ctx, limit, offset, filter)
}

// ReplaceLineItems swaps the whole requested-item set of an open assignment.
func (s *AssignmentService) ReplaceLineItems(ctx context.Context, assignmentId string, items []models.LineItem, actor string) (*models.Assignment, error) {
	if assignmentId == "" {
		return nil, models.NewValidationError("missing required parameter: assignmentId")
	}
	if err := validateLineItems(items); err != nil {
		return nil, err
	}

	if err := s.policy.Evaluate(ctx, authz.Request{
		Resource: authz.ResourceAssignment,
		Action:   authz.ActionEdit,
		Actor:    actor,
	}); err != nil {
		return nil, err
	}

	assignment, err := s.Repo.ReplaceLineItems(ctx, assignmentId, items)
	if err != nil {
		switch {
		case repository.IsNoRows(err):
			return nil, models.NewNotFoundError("assignment not found")
		case err == repository.ErrNotOpen:
			return nil, models.NewConflictError("assignment already closed")
		default:
			return nil, err
		}
	}
	return assignment, nil
}

func validateLineItems(items []models.LineItem) error {
	if len(items) == 0 {
		return models.NewValidationError("line items must not be empty")
	}
	for _, item := range items {
		if item.ProductName == "" {
			return models.NewValidationError("product name is required")
		}
		if item.Quantity <= 0 {
			return models.NewValidationError(fmt.Sprintf("quantity must be positive for %s", item.ProductName))
		}
		if item.TargetPrice != nil && *item.TargetPrice < 0 {
			return models.NewValidationError(fmt.Sprintf("target price must be non-negative for %s", item.ProductName))
		}
	}
	return nil
}
