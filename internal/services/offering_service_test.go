package services

import (
	"context"
	"testing"

	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/settings"
)

func newOfferingFixture(t *testing.T) (*OfferingService, *AssignmentService, *memStore, string) {
	t.Helper()
	settings.Init(settings.Defaults())
	store := newMemStore()
	assignmentSvc := newAssignmentService(store)
	offeringSvc := NewOfferingService(&mockOfferingRepo{store: store}, &mockAssignmentRepo{store: store}, allowAllPolicy{})

	created, err := assignmentSvc.CreateAssignment(context.Background(), models.AssignmentRequest{
		VisitID: "visit-1",
		Items:   []models.LineItem{{ProductName: "Urea", Quantity: 10}},
	}, "dewi.consultant")
	if err != nil {
		t.Fatalf("fixture assignment failed: %v", err)
	}
	return offeringSvc, assignmentSvc, store, created.ID
}

func TestSubmitOffering_MultiplePartners(t *testing.T) {
	svc, _, _, assignmentID := newOfferingFixture(t)

	for _, partner := range []string{"mitra.subur", "mitra.makmur", "mitra.subur"} {
		_, err := svc.SubmitOffering(context.Background(), models.OfferingRequest{
			AssignmentID: assignmentID,
			PartnerID:    partner,
			Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: 100}},
		}, partner)
		if err != nil {
			t.Fatalf("submit for %s failed: %v", partner, err)
		}
	}

	offerings, err := svc.ListForAssignment(context.Background(), assignmentID, "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(offerings) != 3 {
		t.Errorf("expected 3 offerings including the resubmission, got %d", len(offerings))
	}
	for i := 1; i < len(offerings); i++ {
		if offerings[i].SubmittedAt.Before(offerings[i-1].SubmittedAt) {
			t.Errorf("offerings not in submission order at index %d", i)
		}
	}
}

func TestSubmitOffering_EmptyItemsBeforeAnyMutation(t *testing.T) {
	svc, _, store, assignmentID := newOfferingFixture(t)

	_, err := svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: assignmentID,
		PartnerID:    "mitra.subur",
		Items:        []models.OfferingItem{},
	}, "mitra.subur")
	if !models.IsKind(err, models.KindValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.offerings) != 0 {
		t.Errorf("store mutated before validation: %d offerings", len(store.offerings))
	}
}

func TestSubmitOffering_NegativePrice(t *testing.T) {
	svc, _, _, assignmentID := newOfferingFixture(t)

	_, err := svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: assignmentID,
		PartnerID:    "mitra.subur",
		Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: -1}},
	}, "mitra.subur")
	if !models.IsKind(err, models.KindValidation) {
		t.Errorf("expected validation error, got: %v", err)
	}
}

func TestSubmitOffering_UnknownAssignment(t *testing.T) {
	svc, _, _, _ := newOfferingFixture(t)

	_, err := svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: "does-not-exist",
		PartnerID:    "mitra.subur",
		Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: 100}},
	}, "mitra.subur")
	if !models.IsKind(err, models.KindNotFound) {
		t.Errorf("expected not found error, got: %v", err)
	}
}

func TestSubmitOffering_ClosedAssignment(t *testing.T) {
	svc, _, store, assignmentID := newOfferingFixture(t)

	// Close via an approval row so the derived status flips, the same way a
	// real decision closes the assignment.
	approvals := &mockApprovalRepo{store: store}
	approvals.CreateApproval(context.Background(), models.ApprovalRequest{
		AssignmentID: assignmentID, OfferingID: "off-1", ActorID: "budi.approver",
	})

	_, err := svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: assignmentID,
		PartnerID:    "mitra.subur",
		Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: 100}},
	}, "mitra.subur")
	if !models.IsKind(err, models.KindConflict) {
		t.Fatalf("expected conflict error, got: %v", err)
	}
	if err.Error() != "assignment not accepting offerings" {
		t.Errorf("unexpected conflict reason: %q", err.Error())
	}
}

func TestSubmitOffering_IntakePaused(t *testing.T) {
	svc, _, _, assignmentID := newOfferingFixture(t)

	settings.Set(func(s *settings.Snapshot) { s.IntakePaused = true })
	defer settings.Set(func(s *settings.Snapshot) { s.IntakePaused = false })

	_, err := svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: assignmentID,
		PartnerID:    "mitra.subur",
		Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: 100}},
	}, "mitra.subur")
	if !models.IsKind(err, models.KindConflict) {
		t.Errorf("expected conflict while intake is paused, got: %v", err)
	}
}

func TestListForPartner(t *testing.T) {
	svc, _, _, assignmentID := newOfferingFixture(t)

	svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: assignmentID,
		PartnerID:    "mitra.subur",
		Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: 100}},
	}, "mitra.subur")
	svc.SubmitOffering(context.Background(), models.OfferingRequest{
		AssignmentID: assignmentID,
		PartnerID:    "mitra.makmur",
		Items:        []models.OfferingItem{{ProductName: "Urea", Quantity: 10, UnitPrice: 95}},
	}, "mitra.makmur")

	mine, err := svc.ListForPartner(context.Background(), "mitra.subur", "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 1 || mine[0].PartnerID != "mitra.subur" {
		t.Errorf("expected only mitra.subur offerings, got %+v", mine)
	}
}
