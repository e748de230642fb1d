package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tanimitra/procurement-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAlreadyDecided is returned when an approval already exists for the
// assignment. The losing caller of a concurrent approve race gets this.
var ErrAlreadyDecided = errors.New("assignment already decided")

// ApprovalRepository - interface for working with winner-selection records.
type ApprovalRepository interface {
	CreateApproval(ctx context.Context, req models.ApprovalRequest) (*models.Approval, error)
	GetApprovalByAssignment(ctx context.Context, assignmentId string) (*models.Approval, error)
	ApprovalExists(ctx context.Context, assignmentId string) (bool, error)
	ListEligibleAssignments(ctx context.Context, limit, offset int) ([]models.EligibleAssignment, error)
}

// PostgresApprovalRepository - ApprovalRepository implementation for the database.
type PostgresApprovalRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresApprovalRepository creates a new PostgresApprovalRepository instance.
func NewPostgresApprovalRepository(db *pgxpool.Pool) *PostgresApprovalRepository {
	return &PostgresApprovalRepository{DB: db}
}

// CreateApproval inserts the winner-selection record. The insert is
// conditional on the UNIQUE constraint over assignment_id, so checking for an
// existing approval and writing the new one is a single atomic statement:
// the first writer wins and every other concurrent caller gets
// ErrAlreadyDecided. A read-then-write sequence in application code would
// race here.
func (r *PostgresApprovalRepository) CreateApproval(ctx context.Context, req models.ApprovalRequest) (*models.Approval, error) {
	newApproval := models.Approval{
		ID:           uuid.New().String(),
		AssignmentID: req.AssignmentID,
		OfferingID:   req.OfferingID,
		ActorID:      req.ActorID,
		CreatedAt:    time.Now().UTC(),
	}

	insertQuery := `INSERT INTO approval (id, assignment_id, offering_id, actor_id, created_at)
                   VALUES ($1, $2, $3, $4, $5)
                   ON CONFLICT (assignment_id) DO NOTHING`
	tag, err := r.DB.Exec(
		ctx,
		insertQuery,
		newApproval.ID,
		newApproval.AssignmentID,
		newApproval.OfferingID,
		newApproval.ActorID,
		newApproval.CreatedAt)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyDecided
	}
	return &newApproval, nil
}

// GetApprovalByAssignment returns the approval for an assignment.
func (r *PostgresApprovalRepository) GetApprovalByAssignment(ctx context.Context, assignmentId string) (*models.Approval, error) {
	var approval models.Approval
	query := `SELECT id, assignment_id, offering_id, actor_id, created_at
	          FROM approval WHERE assignment_id = $1`
	err := r.DB.QueryRow(ctx, query, assignmentId).Scan(
		&approval.ID,
		&approval.AssignmentID,
		&approval.OfferingID,
		&approval.ActorID,
		&approval.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

// ApprovalExists checks whether an approval exists for the assignment.
func (r *PostgresApprovalRepository) ApprovalExists(ctx context.Context, assignmentId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM approval WHERE assignment_id = $1)`
	err := r.DB.QueryRow(ctx, query, assignmentId).Scan(&exists)
	return exists, err
}

// ListEligibleAssignments projects the assignments ready for delivery-document
// issuance, newest decision first. The projection is recomputed on every call
// from the approval rows, never materialized.
func (r *PostgresApprovalRepository) ListEligibleAssignments(ctx context.Context, limit, offset int) ([]models.EligibleAssignment, error) {
	query := `
		SELECT a.id, ap.created_at
		FROM assignment a
		JOIN approval ap ON ap.assignment_id = a.id
		ORDER BY ap.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eligible []models.EligibleAssignment
	for rows.Next() {
		var entry models.EligibleAssignment
		if err := rows.Scan(&entry.AssignmentID, &entry.DecidedAt); err != nil {
			return nil, err
		}
		eligible = append(eligible, entry)
	}
	return eligible, rows.Err()
}

// IsNoRows reports whether err is the driver's empty-result error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
