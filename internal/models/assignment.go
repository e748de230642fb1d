package models

import "time"

type AssignmentStatus string // Lifecycle state of a procurement assignment

const (
	OpenAssignment   AssignmentStatus = "Open"   // Accepting offerings
	ClosedAssignment AssignmentStatus = "Closed" // Winner selected, no further offerings
)

// LineItem is one requested product line on an assignment. Line items are
// replaced as a whole set, never patched individually.
type LineItem struct {
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity"`
	TargetPrice *float64 `json:"targetPrice,omitempty"`
	Note        *string  `json:"note,omitempty"`
}

// Assignment is a procurement request derived from a completed field visit.
type Assignment struct {
	ID        string           `json:"id"`
	VisitID   string           `json:"visitId"`
	Deadline  *time.Time       `json:"deadline,omitempty"`
	Status    AssignmentStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	Items     []LineItem       `json:"items"`
}

// AssignmentRequest is the payload for creating an assignment.
type AssignmentRequest struct {
	VisitID  string     `json:"visitId"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Items    []LineItem `json:"items"`
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	Statuses []string
	VisitID  string
}
