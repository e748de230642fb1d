package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActorRepository looks up the roles held by an actor. The platform's full
// user store lives elsewhere; this table carries only what the authorization
// policy needs.
type ActorRepository interface {
	RolesForActor(ctx context.Context, username string) ([]string, error)
}

// PostgresActorRepository - ActorRepository implementation for the database.
type PostgresActorRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresActorRepository creates a new PostgresActorRepository instance.
func NewPostgresActorRepository(db *pgxpool.Pool) *PostgresActorRepository {
	return &PostgresActorRepository{DB: db}
}

// RolesForActor returns the roles for a username, empty when unknown.
func (r *PostgresActorRepository) RolesForActor(ctx context.Context, username string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT role FROM actor WHERE username = $1`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
