// Package members — service.go holds the registry logic and the
// display-name fallback policy.
package members

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Store is the storage surface the service needs. Implemented by
// *Repository; faked in tests.
type Store interface {
	Upsert(ctx context.Context, m *Member) error
	GetByUserID(ctx context.Context, userID int64) (*Member, error)
	GetByUsername(ctx context.Context, username string) (*Member, error)
}

// Service manages the member registry.
type Service struct {
	store Store
}

// NewService creates a member service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// EnsureMember records the user on any traffic from them, keeping the
// name fields fresh. Failures are for the caller to log; the bot keeps
// working without the registry.
func (s *Service) EnsureMember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	return s.store.Upsert(ctx, &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	})
}

// GetByUsername resolves a @username (without the @) to a member.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Member, error) {
	return s.store.GetByUsername(ctx, username)
}

// DisplayName resolves a streak-record user id to something readable.
//
// Fallback policy: @username, else first name, else the opaque
// "User <id>" label. A failed or missing lookup is not an error — the
// leaderboard renders with whatever is available.
func (s *Service) DisplayName(ctx context.Context, userID string) string {
	fallback := "User " + userID

	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fallback
	}

	m, err := s.store.GetByUserID(ctx, id)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Debug("display name lookup failed, using id label")
		return fallback
	}

	if m.Username != "" {
		return "@" + m.Username
	}
	if m.FirstName != "" {
		return m.FirstName
	}
	return fallback
}
