// Package members — repository.go runs the SQL against the members table.
package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"streakbot/internal/common"
)

// Repository provides access to the members table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a member repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or refreshes a member row.
func (r *Repository) Upsert(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, m.UserID, m.Username, m.FirstName, m.LastName); err != nil {
		return fmt.Errorf("member upsert: %w", err)
	}
	return nil
}

// GetByUsername returns a member by @username (without the @), or
// common.ErrRecordNotFound.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Member, error) {
	query := `
		SELECT user_id, username, first_name, last_name, created_at, updated_at
		FROM members
		WHERE username = $1
	`
	var m Member
	err := r.db.QueryRow(ctx, query, username).Scan(
		&m.UserID, &m.Username, &m.FirstName, &m.LastName, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("member lookup (username=%s): %w", username, err)
	}
	return &m, nil
}

// GetByUserID returns a member, or common.ErrRecordNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	query := `
		SELECT user_id, username, first_name, last_name, created_at, updated_at
		FROM members
		WHERE user_id = $1
	`
	var m Member
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.Username, &m.FirstName, &m.LastName, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("member lookup (user_id=%d): %w", userID, err)
	}
	return &m, nil
}
