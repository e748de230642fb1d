package models

import "time"

// OfferingItem is one priced product line on an offering, mirroring the
// assignment's requested items.
type OfferingItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Offering is a partner's priced proposal against one assignment. Offerings are
// immutable once submitted; a partner resubmits by creating a new one.
type Offering struct {
	ID           string         `json:"id"`
	AssignmentID string         `json:"assignmentId"`
	PartnerID    string         `json:"partnerId"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	Items        []OfferingItem `json:"items"`
}

// OfferingRequest is the payload for submitting an offering.
type OfferingRequest struct {
	AssignmentID string         `json:"assignmentId"`
	PartnerID    string         `json:"partnerId"`
	Items        []OfferingItem `json:"items"`
}
