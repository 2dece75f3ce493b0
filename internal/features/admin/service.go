// Package admin gates the configuration commands. Admins are either
// whitelisted by id or log in over DM with a password checked against
// an Argon2id hash. Sessions and the brute-force counter live in
// memory — a restart just means logging in again.
package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"streakbot/internal/common"
	"streakbot/internal/config"
)

const (
	sessionTTL     = 24 * time.Hour
	maxAttempts    = 3
	attemptsWindow = 1 * time.Hour
)

// Service manages admin authentication.
type Service struct {
	cfg *config.Config

	mu       sync.Mutex
	sessions map[int64]time.Time   // user id → session expiry
	attempts map[int64][]time.Time // user id → failed login times
	now      func() time.Time
}

// NewService creates the admin service.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		sessions: make(map[int64]time.Time),
		attempts: make(map[int64][]time.Time),
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login verifies the password and opens a session for the user.
// Three failed attempts within an hour lock the user out for the rest
// of that hour.
func (s *Service) Login(userID int64, password string) error {
	if s.cfg.AdminPasswordHash == "" {
		return common.ErrNotAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	recent := recentAttempts(s.attempts[userID], now.Add(-attemptsWindow))
	s.attempts[userID] = recent
	if len(recent) >= maxAttempts {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.cfg.AdminPasswordHash) {
		s.attempts[userID] = append(recent, now)
		return common.ErrWrongPassword
	}

	delete(s.attempts, userID)
	s.sessions[userID] = now.Add(sessionTTL)
	log.WithField("user_id", userID).Info("Admin session opened")
	return nil
}

// IsAuthorized reports whether the user may run admin commands:
// either whitelisted in ADMIN_IDS or holding a live session.
func (s *Service) IsAuthorized(userID int64) bool {
	for _, id := range s.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[userID]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.sessions, userID)
		return false
	}
	return true
}

func recentAttempts(times []time.Time, cutoff time.Time) []time.Time {
	var recent []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

// --- Argon2id utilities ---

// Hash parameters; also encoded into each hash so verification never
// depends on these constants matching what generated it.
const (
	argonMemory      = 64 * 1024
	argonIterations  = 3
	argonParallelism = 2
	argonSaltLen     = 16
	argonKeyLen      = 32
)

// HashPassword produces an encoded Argon2id hash in the standard
// $argon2id$v=19$m=...,t=...,p=...$salt$hash format.
// Used by scripts/generate_hash.go and the tests.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// verifyArgon2id checks a password against an encoded Argon2id hash.
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("malformed Argon2id hash in config")
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		log.WithError(err).Error("cannot parse Argon2id parameters")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("cannot decode Argon2id salt")
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("cannot decode Argon2id hash")
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))

	// Constant-time compare guards against timing probes.
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
