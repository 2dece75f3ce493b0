// Package broadcast — repository.go runs the SQL against the
// server_config table.
package broadcast

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"streakbot/internal/common"
)

// Repository provides access to the server_config singleton.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a config repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get returns the config, or common.ErrConfigMissing when setup has
// never been run.
func (r *Repository) Get(ctx context.Context) (*ServerConfig, error) {
	query := `SELECT channel_id, ping_tag FROM server_config WHERE id = $1`

	var cfg ServerConfig
	err := r.db.QueryRow(ctx, query, ConfigID).Scan(&cfg.ChannelID, &cfg.PingTag)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrConfigMissing
	}
	if err != nil {
		return nil, fmt.Errorf("config lookup: %w", err)
	}
	return &cfg, nil
}

// Set overwrites the singleton config row.
func (r *Repository) Set(ctx context.Context, channelID int64, pingTag string) error {
	query := `
		INSERT INTO server_config (id, channel_id, ping_tag)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id, ping_tag = EXCLUDED.ping_tag
	`
	if _, err := r.db.Exec(ctx, query, ConfigID, channelID, pingTag); err != nil {
		return fmt.Errorf("config write: %w", err)
	}
	return nil
}
