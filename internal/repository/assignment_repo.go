package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tanimitra/procurement-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// ErrNotOpen is returned by conditional writes that require an open assignment.
var ErrNotOpen = errors.New("assignment is not open")

// AssignmentRepository - interface for working with procurement assignments.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, assignmentId string) (*models.Assignment, error)
	ListAssignments(ctx context.Context, limit, offset int, filter models.AssignmentFilter) ([]models.Assignment, error)
	CloseAssignment(ctx context.Context, assignmentId string) error
	ReplaceLineItems(ctx context.Context, assignmentId string, items []models.LineItem) (*models.Assignment, error)
	AssignmentExists(ctx context.Context, assignmentId string) (bool, error)
}

// PostgresAssignmentRepository - AssignmentRepository implementation for the database.
type PostgresAssignmentRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresAssignmentRepository creates a new PostgresAssignmentRepository instance.
func NewPostgresAssignmentRepository(db *pgxpool.Pool) *PostgresAssignmentRepository {
	return &PostgresAssignmentRepository{DB: db}
}

// Reads derive the status from approval existence rather than trusting the
// stored flag alone: an assignment with an approval is Closed even if the
// close write after the approval never landed.
const assignmentColumns = `
	a.id, a.visit_id, a.deadline,
	CASE WHEN ap.assignment_id IS NULL THEN a.status ELSE 'Closed' END AS status,
	a.created_at`

// CreateAssignment inserts a new assignment together with its line items.
func (r *PostgresAssignmentRepository) CreateAssignment(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error) {
	newAssignment := models.Assignment{
		ID:        uuid.New().String(),
		VisitID:   req.VisitID,
		Deadline:  req.Deadline,
		Status:    models.OpenAssignment,
		CreatedAt: time.Now().UTC(),
		Items:     req.Items,
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
       INSERT INTO assignment (id, visit_id, deadline, status, created_at)
       VALUES ($1, $2, $3, $4, $5)
   `,
		newAssignment.ID,
		newAssignment.VisitID,
		newAssignment.Deadline,
		newAssignment.Status,
		newAssignment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert assignment: %w", err)
	}

	if err := insertLineItems(ctx, tx, newAssignment.ID, newAssignment.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}
	return &newAssignment, nil
}

// GetAssignment returns an assignment with its ordered line items.
func (r *PostgresAssignmentRepository) GetAssignment(ctx context.Context, assignmentId string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
	          FROM assignment a
	          LEFT JOIN approval ap ON ap.assignment_id = a.id
	          WHERE a.id = $1`

	var assignment models.Assignment
	err := r.DB.QueryRow(ctx, query, assignmentId).Scan(
		&assignment.ID,
		&assignment.VisitID,
		&assignment.Deadline,
		&assignment.Status,
		&assignment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	items, err := r.getLineItems(ctx, assignmentId)
	if err != nil {
		return nil, err
	}
	assignment.Items = items
	return &assignment, nil
}

// ListAssignments returns assignments ordered by creation time descending.
func (r *PostgresAssignmentRepository) ListAssignments(ctx context.Context, limit, offset int, filter models.AssignmentFilter) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
	          FROM assignment a
	          LEFT JOIN approval ap ON ap.assignment_id = a.id`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(filter.Statuses) > 0 {
		filters = append(filters, fmt.Sprintf("(CASE WHEN ap.assignment_id IS NULL THEN a.status ELSE 'Closed' END) = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Statuses))
		argIndex++
	}
	if filter.VisitID != "" {
		filters = append(filters, fmt.Sprintf("a.visit_id = $%d", argIndex))
		args = append(args, filter.VisitID)
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var assignment models.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.VisitID,
			&assignment.Deadline,
			&assignment.Status,
			&assignment.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range assignments {
		items, err := r.getLineItems(ctx, assignments[i].ID)
		if err != nil {
			return nil, err
		}
		assignments[i].Items = items
	}
	return assignments, nil
}

// CloseAssignment transitions an open assignment to Closed. The update is
// conditional on the current status, so the first closer wins.
func (r *PostgresAssignmentRepository) CloseAssignment(ctx context.Context, assignmentId string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE assignment SET status = $1 WHERE id = $2 AND status = $3`,
		models.ClosedAssignment, assignmentId, models.OpenAssignment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotOpen
	}
	return nil
}

// ReplaceLineItems swaps the whole line-item set of an open assignment inside
// one transaction. The row lock keeps the openness check and the swap atomic
// against a concurrent approval.
func (r *PostgresAssignmentRepository) ReplaceLineItems(ctx context.Context, assignmentId string, items []models.LineItem) (*models.Assignment, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status models.AssignmentStatus
	err = tx.QueryRow(ctx, `
		SELECT CASE WHEN ap.assignment_id IS NULL THEN a.status ELSE 'Closed' END
		FROM assignment a
		LEFT JOIN approval ap ON ap.assignment_id = a.id
		WHERE a.id = $1
		FOR UPDATE OF a`, assignmentId).Scan(&status)
	if err != nil {
		return nil, err
	}
	if status != models.OpenAssignment {
		return nil, ErrNotOpen
	}

	_, err = tx.Exec(ctx, `DELETE FROM assignment_item WHERE assignment_id = $1`, assignmentId)
	if err != nil {
		return nil, err
	}
	if err := insertLineItems(ctx, tx, assignmentId, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit line items: %w", err)
	}
	return r.GetAssignment(ctx, assignmentId)
}

// AssignmentExists checks whether an assignment exists.
func (r *PostgresAssignmentRepository) AssignmentExists(ctx context.Context, assignmentId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM assignment WHERE id = $1)`
	err := r.DB.QueryRow(ctx, query, assignmentId).Scan(&exists)
	return exists, err
}

func (r *PostgresAssignmentRepository) getLineItems(ctx context.Context, assignmentId string) ([]models.LineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_name, quantity, target_price, note
		FROM assignment_item
		WHERE assignment_id = $1
		ORDER BY position`, assignmentId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.TargetPrice, &item.Note); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func insertLineItems(ctx context.Context, tx pgx.Tx, assignmentId string, items []models.LineItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment_item (assignment_id, position, product_name, quantity, target_price, note)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			assignmentId, i+1, item.ProductName, item.Quantity, item.TargetPrice, item.Note)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return nil
}
