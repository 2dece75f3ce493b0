// Package common — errors.go defines the sentinel errors shared by all
// features. Handlers match on these with errors.Is and translate them
// into user-facing messages; raw store errors never reach the chat.
package common

import "errors"

// Streak errors
var (
	// ErrAlreadyCheckedIn — the user already checked in during the
	// current 21:00–21:00 window. A warning, not a failure.
	ErrAlreadyCheckedIn = errors.New("already checked in during the current window")
	// ErrWindowNotOpen — a first-time user tried to check in before
	// today's window boundary.
	ErrWindowNotOpen = errors.New("check-in window has not opened yet")
	// ErrRecordNotFound — no streak record for the user. Mapped to a
	// zero streak by the service layer, never shown to users.
	ErrRecordNotFound = errors.New("streak record not found")
)

// Broadcast / setup errors
var (
	// ErrConfigMissing — no server config stored yet. The scheduler
	// skips silently; a manual test post reports it to the admin.
	ErrConfigMissing = errors.New("server config is not set")
	// ErrMalformedMention — the setup command carried no usable ping
	// tag. Setup aborts without writing anything.
	ErrMalformedMention = errors.New("no channel or ping tag mentioned")
)

// Admin errors
var (
	// ErrNotAdmin — the user is neither a configured admin nor logged in.
	ErrNotAdmin = errors.New("administrator rights required")
	// ErrWrongPassword — admin password did not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyAttempts — brute-force guard tripped.
	ErrTooManyAttempts = errors.New("too many login attempts, wait an hour")
)
