// Package streak — repository.go runs the SQL against the streaks table.
package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"streakbot/internal/common"
)

// Repository provides access to the streaks table.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a streak repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByUserID returns a user's record, or common.ErrRecordNotFound.
// A store failure is returned as-is so callers can tell "no record"
// from "store is down".
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Record, error) {
	query := `SELECT user_id, streak, last_updated FROM streaks WHERE user_id = $1`

	var rec Record
	err := r.db.QueryRow(ctx, query, userID).Scan(&rec.UserID, &rec.Streak, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("streak lookup (user_id=%s): %w", userID, err)
	}
	return &rec, nil
}

// Insert creates the record for a first check-in. Returns false when a
// concurrent writer created the row first (ON CONFLICT DO NOTHING).
func (r *Repository) Insert(ctx context.Context, rec *Record) (bool, error) {
	query := `
		INSERT INTO streaks (user_id, streak, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, rec.UserID, rec.Streak, rec.LastUpdated)
	if err != nil {
		return false, fmt.Errorf("streak insert: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateIfUnchanged is the compare-and-swap write of the check-in
// read-decide-write sequence: the row is updated only if last_updated
// still equals the value the decision was based on. Returns false when
// another writer got there first — the caller must treat that as an
// already-checked-in rejection, not retry blindly.
func (r *Repository) UpdateIfUnchanged(ctx context.Context, rec *Record, prevLastUpdated time.Time) (bool, error) {
	query := `
		UPDATE streaks
		SET streak = $2, last_updated = $3
		WHERE user_id = $1 AND last_updated = $4
	`
	tag, err := r.db.Exec(ctx, query, rec.UserID, rec.Streak, rec.LastUpdated, prevLastUpdated)
	if err != nil {
		return false, fmt.Errorf("streak update: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Upsert writes the record unconditionally. Used by reset, which is
// always accepted and needs no window check.
func (r *Repository) Upsert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO streaks (user_id, streak, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET streak = EXCLUDED.streak, last_updated = EXCLUDED.last_updated
	`
	if _, err := r.db.Exec(ctx, query, rec.UserID, rec.Streak, rec.LastUpdated); err != nil {
		return fmt.Errorf("streak upsert: %w", err)
	}
	return nil
}

// ListTop returns up to limit records ordered by streak descending.
// Ties keep the store's natural scan order; no secondary sort.
func (r *Repository) ListTop(ctx context.Context, limit int) ([]*Record, error) {
	query := `
		SELECT user_id, streak, last_updated
		FROM streaks
		ORDER BY streak DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.UserID, &rec.Streak, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("leaderboard scan: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
