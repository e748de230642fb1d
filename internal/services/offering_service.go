package services

import (
	"context"
	"fmt"

	"github.com/tanimitra/procurement-service/internal/authz"
	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/repository"
	"github.com/tanimitra/procurement-service/internal/settings"
	"github.com/tanimitra/procurement-service/internal/utils"
)

// OfferingService accepts and lists competing partner offerings against open
// assignments.
type OfferingService struct {
	Repo        repository.OfferingRepository
	assignments repository.AssignmentRepository
	policy      authz.Policy
}

// NewOfferingService creates a new OfferingService instance.
func NewOfferingService(repo repository.OfferingRepository, assignments repository.AssignmentRepository, policy authz.Policy) *OfferingService {
	return &OfferingService{Repo: repo, assignments: assignments, policy: policy}
}

// SubmitOffering validates and stores a new immutable offering. Input is
// validated before any store mutation. Resubmission by the same partner is
// allowed; the latest offering is just another row.
func (s *OfferingService) SubmitOffering(ctx context.Context, req models.OfferingRequest, actor string) (*models.Offering, error) {
	if req.AssignmentID == "" || req.PartnerID == "" {
		return nil, models.NewValidationError("missing required fields: assignmentId or partnerId")
	}
	if err := validateOfferingItems(req.Items); err != nil {
		return nil, err
	}

	if err := s.policy.Evaluate(ctx, authz.Request{
		Resource: authz.ResourceOffering,
		Action:   authz.ActionSubmit,
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
		return nil, models.NewConflictError("assignment not accepting offerings")
	}

	return s.Repo.CreateOffering(ctx, req)
}

// ListForAssignment returns the offerings for an assignment in submission order.
func (s *OfferingService) ListForAssignment(ctx context.Context, assignmentId, limitStr, offsetStr string) ([]models.Offering, error) {
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

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.Repo.ListForAssignment(ctx, assignmentId, limit, offset)
}

// ListForPartner returns a partner's offerings, newest first.
func (s *OfferingService) ListForPartner(ctx context.Context, partnerId, limitStr, offsetStr string) ([]models.Offering, error) {
	if partnerId == "" {
		return nil, models.NewValidationError("missing required parameter: partner_id")
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.Repo.ListForPartner(ctx, partnerId, limit, offset)
}

func validateOfferingItems(items []models.OfferingItem) error {
	if len(items) == 0 {
		return models.NewValidationError("offering items must not be empty")
	}
	for _, item := range items {
		if item.ProductName == "" {
			return models.NewValidationError("product name is required")
		}
		if item.Quantity <= 0 {
			return models.NewValidationError(fmt.Sprintf("quantity must be positive for %s", item.ProductName))
		}
		if item.UnitPrice < 0 {
			return models.NewValidationError(fmt.Sprintf("unit price must be non-negative for %s", item.ProductName))
		}
	}
	return nil
}
