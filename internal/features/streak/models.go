// Package streak implements the daily check-in streak system:
// the window state machine, rank classification, 7-day history
// rendering and the countdown to the next window boundary.
// models.go describes the stored record.
package streak

import "time"

// Record is one user's streak row.
//
// UserID is kept as an opaque string: ids arrive from the chat platform
// but nothing in the streak logic depends on their shape, and relayed
// check-ins may credit users the bot has never seen directly.
type Record struct {
	UserID      string    `db:"user_id"`
	Streak      int       `db:"streak"`
	LastUpdated time.Time `db:"last_updated"`
}
