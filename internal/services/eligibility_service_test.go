package services

import (
	"context"
	"testing"

	"github.com/tanimitra/procurement-service/internal/models"
)

func TestIsEligible_Monotonic(t *testing.T) {
	f := newApprovalFixture(t)
	offering := f.submit(t, "mitra.subur", 100)

	before, err := f.eligibility.IsEligible(context.Background(), f.assignmentID)
	if err != nil {
		t.Fatalf("eligibility failed: %v", err)
	}
	if before.Eligible {
		t.Error("expected ineligible before any approval")
	}

	if _, err := f.approvals.SubmitApproval(context.Background(), models.ApprovalRequest{
		AssignmentID: f.assignmentID,
		OfferingID:   offering.ID,
		ActorID:      "budi.approver",
	}, "budi.approver"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// Stays true on repeated reads; no path revokes eligibility.
	for i := 0; i < 3; i++ {
		after, err := f.eligibility.IsEligible(context.Background(), f.assignmentID)
		if err != nil {
			t.Fatalf("eligibility failed: %v", err)
		}
		if !after.Eligible {
			t.Fatalf("expected eligibility to hold on read %d", i)
		}
	}
}

func TestIsEligible_UnknownAssignment(t *testing.T) {
	f := newApprovalFixture(t)

	_, err := f.eligibility.IsEligible(context.Background(), "does-not-exist")
	if !models.IsKind(err, models.KindNotFound) {
		t.Errorf("expected not found error, got: %v", err)
	}
}

func TestListEligibleAssignments(t *testing.T) {
	f := newApprovalFixture(t)
	offering := f.submit(t, "mitra.subur", 100)

	empty, err := f.eligibility.ListEligibleAssignments(context.Background(), "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no eligible assignments, got %d", len(empty))
	}

	if _, err := f.approvals.SubmitApproval(context.Background(), models.ApprovalRequest{
		AssignmentID: f.assignmentID,
		OfferingID:   offering.ID,
		ActorID:      "budi.approver",
	}, "budi.approver"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	eligible, err := f.eligibility.ListEligibleAssignments(context.Background(), "", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].AssignmentID != f.assignmentID {
		t.Errorf("expected eligible assignment %s, got %+v", f.assignmentID, eligible)
	}
}
