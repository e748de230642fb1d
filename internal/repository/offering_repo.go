package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/tanimitra/procurement-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OfferingRepository - interface for working with partner offerings.
type OfferingRepository interface {
	CreateOffering(ctx context.Context, req models.OfferingRequest) (*models.Offering, error)
	GetOffering(ctx context.Context, offeringId string) (*models.Offering, error)
	ListForAssignment(ctx context.Context, assignmentId string, limit, offset int) ([]models.Offering, error)
	ListForPartner(ctx context.Context, partnerId string, limit, offset int) ([]models.Offering, error)
}

// PostgresOfferingRepository - OfferingRepository implementation for the database.
type PostgresOfferingRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOfferingRepository creates a new PostgresOfferingRepository instance.
func NewPostgresOfferingRepository(db *pgxpool.Pool) *PostgresOfferingRepository {
	return &PostgresOfferingRepository{DB: db}
}

// CreateOffering inserts a new immutable offering with its priced items.
func (r *PostgresOfferingRepository) CreateOffering(ctx context.Context, req models.OfferingRequest) (*models.Offering, error) {
	newOffering := models.Offering{
		ID:           uuid.New().String(),
		AssignmentID: req.AssignmentID,
		PartnerID:    req.PartnerID,
		SubmittedAt:  time.Now().UTC(),
		Items:        req.Items,
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `INSERT INTO offering (id, assignment_id, partner_id, submitted_at)
                   VALUES ($1, $2, $3, $4)`
	_, err = tx.Exec(
		ctx,
		insertQuery,
		newOffering.ID,
		newOffering.AssignmentID,
		newOffering.PartnerID,
		newOffering.SubmittedAt)
	if err != nil {
		return nil, err
	}

	for i, item := range newOffering.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO offering_item (offering_id, position, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			newOffering.ID, i+1, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to insert offering item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit offering: %w", err)
	}
	return &newOffering, nil
}

// GetOffering returns an offering with its items.
func (r *PostgresOfferingRepository) GetOffering(ctx context.Context, offeringId string) (*models.Offering, error) {
	var offering models.Offering
	query := `SELECT id, assignment_id, partner_id, submitted_at FROM offering WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, offeringId).Scan(
		&offering.ID,
		&offering.AssignmentID,
		&offering.PartnerID,
		&offering.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	items, err := r.getOfferingItems(ctx, offeringId)
	if err != nil {
		return nil, err
	}
	offering.Items = items
	return &offering, nil
}

// ListForAssignment returns offerings for an assignment in submission order.
// First-come ordering is preserved for display tie-breaks only; it carries no
// priority in approval.
func (r *PostgresOfferingRepository) ListForAssignment(ctx context.Context, assignmentId string, limit, offset int) ([]models.Offering, error) {
	query := `
		SELECT id, assignment_id, partner_id, submitted_at
		FROM offering
		WHERE assignment_id = $1
		ORDER BY submitted_at ASC
		LIMIT $2 OFFSET $3`
	return r.listOfferings(ctx, query, assignmentId, limit, offset)
}

// ListForPartner returns a partner's offerings, newest first.
func (r *PostgresOfferingRepository) ListForPartner(ctx context.Context, partnerId string, limit, offset int) ([]models.Offering, error) {
	query := `
		SELECT id, assignment_id, partner_id, submitted_at
		FROM offering
		WHERE partner_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3`
	return r.listOfferings(ctx, query, partnerId, limit, offset)
}

func (r *PostgresOfferingRepository) listOfferings(ctx context.Context, query, key string, limit, offset int) ([]models.Offering, error) {
	rows, err := r.DB.Query(ctx, query, key, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []models.Offering
	for rows.Next() {
		var offering models.Offering
		if err := rows.Scan(&offering.ID, &offering.AssignmentID, &offering.PartnerID, &offering.SubmittedAt); err != nil {
			return nil, err
		}
		offerings = append(offerings, offering)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range offerings {
		items, err := r.getOfferingItems(ctx, offerings[i].ID)
		if err != nil {
			return nil, err
		}
		offerings[i].Items = items
	}
	return offerings, nil
}

func (r *PostgresOfferingRepository) getOfferingItems(ctx context.Context, offeringId string) ([]models.OfferingItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_name, quantity, unit_price
		FROM offering_item
		WHERE offering_id = $1
		ORDER BY position`, offeringId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OfferingItem
	for rows.Next() {
		var item models.OfferingItem
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
