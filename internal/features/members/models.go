// Package members keeps a registry of chat users so the leaderboard
// can render names instead of raw ids.
package members

import "time"

// Member is one registered chat user.
type Member struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
