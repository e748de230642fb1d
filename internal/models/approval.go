package models

import "time"

// Approval is the single authoritative winner-selection record for an
// assignment. At most one exists per assignment, enforced by a uniqueness
// constraint on the assignment reference.
type Approval struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignmentId"`
	OfferingID   string    `json:"offeringId"`
	ActorID      string    `json:"actorId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ApprovalRequest is the payload for selecting a winning offering.
type ApprovalRequest struct {
	AssignmentID string `json:"assignmentId"`
	OfferingID   string `json:"offeringId"`
	ActorID      string `json:"actorId"`
}

// Eligibility reports whether an assignment is ready for downstream
// delivery-document issuance. It is recomputed on every read, never stored.
type Eligibility struct {
	AssignmentID string `json:"assignmentId"`
	Eligible     bool   `json:"eligible"`
}

// EligibleAssignment is one entry of the eligible-assignments projection.
type EligibleAssignment struct {
	AssignmentID string    `json:"assignmentId"`
	DecidedAt    time.Time `json:"decidedAt"`
}
