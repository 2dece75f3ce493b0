// Package streak — engine.go is the window state machine. Everything
// here is pure: the engine looks at "now" and a record and decides,
// it never touches the store.
package streak

import (
	"time"

	"streakbot/internal/common"
)

// Engine evaluates check-ins against the recurring daily window.
// All boundaries are computed in one fixed reference timezone,
// independent of any user's local time.
type Engine struct {
	loc  *time.Location
	hour int // local hour of the daily boundary
}

// NewEngine creates an engine for the given reference timezone and
// boundary hour (21 for the 21:00–21:00 window).
func NewEngine(loc *time.Location, hour int) *Engine {
	return &Engine{loc: loc, hour: hour}
}

// Location returns the reference timezone.
func (e *Engine) Location() *time.Location { return e.loc }

// BoundaryToday returns today's boundary instant: the boundary hour on
// now's calendar date in the reference timezone.
func (e *Engine) BoundaryToday(now time.Time) time.Time {
	t := now.In(e.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), e.hour, 0, 0, 0, e.loc)
}

// WindowStart returns the start of the window containing now: the most
// recent boundary ≤ now. AddDate carries the subtraction across month
// and year boundaries; naive day-of-month arithmetic does not.
func (e *Engine) WindowStart(now time.Time) time.Time {
	boundary := e.BoundaryToday(now)
	if now.Before(boundary) {
		return boundary.AddDate(0, 0, -1)
	}
	return boundary
}

// Decision is the outcome of evaluating a check-in attempt.
// When Accepted is false, Reason carries the sentinel to surface
// (common.ErrAlreadyCheckedIn or common.ErrWindowNotOpen) and the
// stored record must not be touched.
type Decision struct {
	Accepted       bool
	NewStreak      int
	NewLastUpdated time.Time
	Reason         error
}

// Evaluate decides whether a check-in at now is allowed.
// rec is nil for a user who has never checked in.
//
// Rules:
//   - no record: accepted only once today's boundary has passed,
//     producing streak=1. A first-timer arriving earlier must wait.
//   - record with streak 0 (fresh reset): always accepted — the reset
//     stamp is not a check-in and carries no window lock.
//   - otherwise: rejected iff the stored stamp falls inside the current
//     window. This is a stamp-vs-window-start comparison, not a
//     calendar-date one, so windows spanning midnight behave.
func (e *Engine) Evaluate(now time.Time, rec *Record) Decision {
	if rec == nil {
		if now.Before(e.BoundaryToday(now)) {
			return Decision{Reason: common.ErrWindowNotOpen}
		}
		return Decision{Accepted: true, NewStreak: 1, NewLastUpdated: now}
	}

	if rec.Streak == 0 {
		return Decision{Accepted: true, NewStreak: 1, NewLastUpdated: now}
	}

	if !rec.LastUpdated.Before(e.WindowStart(now)) {
		return Decision{Reason: common.ErrAlreadyCheckedIn}
	}

	return Decision{Accepted: true, NewStreak: rec.Streak + 1, NewLastUpdated: now}
}

// TimeToNextWindow returns the time remaining until the next boundary.
// Always in [0, 24h).
func (e *Engine) TimeToNextWindow(now time.Time) time.Duration {
	boundary := e.BoundaryToday(now)
	if !now.Before(boundary) {
		boundary = boundary.AddDate(0, 0, 1)
	}
	return boundary.Sub(now)
}
