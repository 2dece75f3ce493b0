// Package streak — service.go coordinates the engine and the store.
// The store and the clock are injected so tests run against an
// in-memory fake with a frozen time.
package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"streakbot/internal/common"
	"streakbot/internal/metrics"
)

// LeaderboardSize is how many records the leaderboard shows.
const LeaderboardSize = 10

// Store is the record-store surface the service needs.
// Implemented by *Repository over PostgreSQL.
type Store interface {
	GetByUserID(ctx context.Context, userID string) (*Record, error)
	Insert(ctx context.Context, rec *Record) (bool, error)
	UpdateIfUnchanged(ctx context.Context, rec *Record, prevLastUpdated time.Time) (bool, error)
	Upsert(ctx context.Context, rec *Record) error
	ListTop(ctx context.Context, limit int) ([]*Record, error)
}

// Service owns the check-in lifecycle.
type Service struct {
	store   Store
	engine  *Engine
	metrics metrics.Collector
	now     func() time.Time
}

// NewService creates the streak service.
func NewService(store Store, engine *Engine, collector metrics.Collector) *Service {
	return &Service{
		store:   store,
		engine:  engine,
		metrics: collector,
		now:     time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Engine exposes the window math for handlers that only need the pure
// parts (countdown, history).
func (s *Service) Engine() *Engine { return s.engine }

// CheckIn runs the read-decide-write sequence for one check-in attempt.
//
// The write is conditional on the record being unchanged since the
// read. If the condition fails, a concurrent check-in won the race and
// this attempt is reported as already-checked-in — never as a second
// increment.
func (s *Service) CheckIn(ctx context.Context, userID string) (*Record, error) {
	now := s.now()

	var prev *Record
	rec, err := s.store.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		prev = rec
	case errors.Is(err, common.ErrRecordNotFound):
		// first-time user, prev stays nil
	default:
		s.metrics.RecordStoreError("checkin_read")
		return nil, fmt.Errorf("check-in read: %w", err)
	}

	decision := s.engine.Evaluate(now, prev)
	if !decision.Accepted {
		s.metrics.RecordCheckInRejected(rejectReason(decision.Reason))
		return nil, decision.Reason
	}

	updated := &Record{
		UserID:      userID,
		Streak:      decision.NewStreak,
		LastUpdated: decision.NewLastUpdated,
	}

	var applied bool
	if prev == nil {
		applied, err = s.store.Insert(ctx, updated)
	} else {
		applied, err = s.store.UpdateIfUnchanged(ctx, updated, prev.LastUpdated)
	}
	if err != nil {
		s.metrics.RecordStoreError("checkin_write")
		return nil, fmt.Errorf("check-in write: %w", err)
	}
	if !applied {
		// Lost the race against a concurrent check-in for this user.
		s.metrics.RecordCheckInRejected("race")
		return nil, common.ErrAlreadyCheckedIn
	}

	s.metrics.RecordCheckInAccepted()
	log.WithFields(log.Fields{
		"user_id": userID,
		"streak":  updated.Streak,
	}).Info("Check-in accepted")

	return updated, nil
}

// Reset forces the streak to zero. Always accepted, any number of
// times; creates the record if absent.
func (s *Service) Reset(ctx context.Context, userID string) (*Record, error) {
	rec := &Record{UserID: userID, Streak: 0, LastUpdated: s.now()}
	if err := s.store.Upsert(ctx, rec); err != nil {
		s.metrics.RecordStoreError("reset")
		return nil, fmt.Errorf("streak reset: %w", err)
	}
	s.metrics.RecordStreakReset()
	log.WithField("user_id", userID).Info("Streak reset")
	return rec, nil
}

// GetStreak returns the current counter. A missing record is a zero
// streak, not an error.
func (s *Service) GetStreak(ctx context.Context, userID string) (int, error) {
	rec, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, common.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		s.metrics.RecordStoreError("get")
		return 0, fmt.Errorf("streak read: %w", err)
	}
	return rec.Streak, nil
}

// Leaderboard returns the top records by streak descending.
func (s *Service) Leaderboard(ctx context.Context) ([]*Record, error) {
	records, err := s.store.ListTop(ctx, LeaderboardSize)
	if err != nil {
		s.metrics.RecordStoreError("leaderboard")
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return records, nil
}

// History renders the 7-day glyph strip for a user. A missing record
// renders as seven missed days.
func (s *Service) History(ctx context.Context, userID string) (string, error) {
	rec, err := s.store.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrRecordNotFound) {
		s.metrics.RecordStoreError("history")
		return "", fmt.Errorf("history read: %w", err)
	}
	return s.engine.RenderHistory(s.now(), rec), nil
}

// Countdown returns the time left until the next window boundary.
func (s *Service) Countdown() time.Duration {
	return s.engine.TimeToNextWindow(s.now())
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, common.ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, common.ErrWindowNotOpen):
		return "window_not_open"
	default:
		return "other"
	}
}
