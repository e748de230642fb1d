package services

import (
	"context"
	"sync"
	"time"

	"github.com/tanimitra/procurement-service/internal/authz"
	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// allowAllPolicy skips authorization in workflow tests; the policy itself is
// covered in the authz package.
type allowAllPolicy struct{}

func (allowAllPolicy) Evaluate(ctx context.Context, req authz.Request) error { return nil }

// memStore backs the mock repositories with one mutex-guarded state, so a
// concurrent approve race in a test runs against shared data like it would
// against the database.
type memStore struct {
	mu              sync.Mutex
	assignments     map[string]models.Assignment
	assignmentOrder []string
	offerings       map[string]models.Offering
	offeringOrder   []string
	approvals       map[string]models.Approval
	approvalOrder   []string
}

func newMemStore() *memStore {
	return &memStore{
		assignments: make(map[string]models.Assignment),
		offerings:   make(map[string]models.Offering),
		approvals:   make(map[string]models.Approval),
	}
}

// derivedStatus treats an assignment with an approval as Closed regardless of
// the stored flag, mirroring the read queries.
func (s *memStore) derivedStatus(a models.Assignment) models.AssignmentStatus {
	if _, ok := s.approvals[a.ID]; ok {
		return models.ClosedAssignment
	}
	return a.Status
}

type mockAssignmentRepo struct {
	store *memStore
	// closeErr simulates a lost close write after the approval persisted.
	closeErr error
}

func (m *mockAssignmentRepo) CreateAssignment(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	assignment := models.Assignment{
		ID:        uuid.New().String(),
		VisitID:   req.VisitID,
		Deadline:  req.Deadline,
		Status:    models.OpenAssignment,
		CreatedAt: time.Now().UTC(),
		Items:     append([]models.LineItem(nil), req.Items...),
	}
	m.store.assignments[assignment.ID] = assignment
	m.store.assignmentOrder = append(m.store.assignmentOrder, assignment.ID)
	return &assignment, nil
}

func (m *mockAssignmentRepo) GetAssignment(ctx context.Context, assignmentId string) (*models.Assignment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	assignment, ok := m.store.assignments[assignmentId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	assignment.Status = m.store.derivedStatus(assignment)
	assignment.Items = append([]models.LineItem(nil), assignment.Items...)
	return &assignment, nil
}

func (m *mockAssignmentRepo) ListAssignments(ctx context.Context, limit, offset int, filter models.AssignmentFilter) ([]models.Assignment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []models.Assignment
	for i := len(m.store.assignmentOrder) - 1; i >= 0; i-- {
		assignment := m.store.assignments[m.store.assignmentOrder[i]]
		assignment.Status = m.store.derivedStatus(assignment)
		if filter.VisitID != "" && assignment.VisitID != filter.VisitID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if models.AssignmentStatus(status) == assignment.Status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, assignment)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAssignmentRepo) CloseAssignment(ctx context.Context, assignmentId string) error {
	if m.closeErr != nil {
		return m.closeErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	assignment, ok := m.store.assignments[assignmentId]
	if !ok || assignment.Status != models.OpenAssignment {
		return repository.ErrNotOpen
	}
	assignment.Status = models.ClosedAssignment
	m.store.assignments[assignmentId] = assignment
	return nil
}

func (m *mockAssignmentRepo) ReplaceLineItems(ctx context.Context, assignmentId string, items []models.LineItem) (*models.Assignment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	assignment, ok := m.store.assignments[assignmentId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if m.store.derivedStatus(assignment) != models.OpenAssignment {
		return nil, repository.ErrNotOpen
	}
	assignment.Items = append([]models.LineItem(nil), items...)
	m.store.assignments[assignmentId] = assignment
	return &assignment, nil
}

func (m *mockAssignmentRepo) AssignmentExists(ctx context.Context, assignmentId string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	_, ok := m.store.assignments[assignmentId]
	return ok, nil
}

type mockOfferingRepo struct {
	store *memStore
}

func (m *mockOfferingRepo) CreateOffering(ctx context.Context, req models.OfferingRequest) (*models.Offering, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	offering := models.Offering{
		ID:           uuid.New().String(),
		AssignmentID: req.AssignmentID,
		PartnerID:    req.PartnerID,
		SubmittedAt:  time.Now().UTC(),
		Items:        append([]models.OfferingItem(nil), req.Items...),
	}
	m.store.offerings[offering.ID] = offering
	m.store.offeringOrder = append(m.store.offeringOrder, offering.ID)
	return &offering, nil
}

func (m *mockOfferingRepo) GetOffering(ctx context.Context, offeringId string) (*models.Offering, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	offering, ok := m.store.offerings[offeringId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &offering, nil
}

func (m *mockOfferingRepo) ListForAssignment(ctx context.Context, assignmentId string, limit, offset int) ([]models.Offering, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []models.Offering
	for _, id := range m.store.offeringOrder {
		offering := m.store.offerings[id]
		if offering.AssignmentID == assignmentId {
			out = append(out, offering)
		}
	}
	return page(out, limit, offset), nil
}

func (m *mockOfferingRepo) ListForPartner(ctx context.Context, partnerId string, limit, offset int) ([]models.Offering, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []models.Offering
	for i := len(m.store.offeringOrder) - 1; i >= 0; i-- {
		offering := m.store.offerings[m.store.offeringOrder[i]]
		if offering.PartnerID == partnerId {
			out = append(out, offering)
		}
	}
	return page(out, limit, offset), nil
}

type mockApprovalRepo struct {
	store *memStore
}

// CreateApproval mirrors the conditional insert: existence check and write
// under one lock, first writer wins.
func (m *mockApprovalRepo) CreateApproval(ctx context.Context, req models.ApprovalRequest) (*models.Approval, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.approvals[req.AssignmentID]; ok {
		return nil, repository.ErrAlreadyDecided
	}
	approval := models.Approval{
		ID:           uuid.New().String(),
		AssignmentID: req.AssignmentID,
		OfferingID:   req.OfferingID,
		ActorID:      req.ActorID,
		CreatedAt:    time.Now().UTC(),
	}
	m.store.approvals[approval.AssignmentID] = approval
	m.store.approvalOrder = append(m.store.approvalOrder, approval.AssignmentID)
	return &approval, nil
}

func (m *mockApprovalRepo) GetApprovalByAssignment(ctx context.Context, assignmentId string) (*models.Approval, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	approval, ok := m.store.approvals[assignmentId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &approval, nil
}

func (m *mockApprovalRepo) ApprovalExists(ctx context.Context, assignmentId string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	_, ok := m.store.approvals[assignmentId]
	return ok, nil
}

func (m *mockApprovalRepo) ListEligibleAssignments(ctx context.Context, limit, offset int) ([]models.EligibleAssignment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []models.EligibleAssignment
	for i := len(m.store.approvalOrder) - 1; i >= 0; i-- {
		approval := m.store.approvals[m.store.approvalOrder[i]]
		out = append(out, models.EligibleAssignment{AssignmentID: approval.AssignmentID, DecidedAt: approval.CreatedAt})
	}
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
