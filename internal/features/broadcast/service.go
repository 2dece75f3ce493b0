// Package broadcast — service.go composes and sends the daily posts.
// The config store, the send function and the countdown source are all
// injected; tests run with fakes.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"streakbot/internal/common"
	"streakbot/internal/metrics"
)

// ConfigStore is the storage surface for the config singleton.
// Implemented by *Repository.
type ConfigStore interface {
	Get(ctx context.Context) (*ServerConfig, error)
	Set(ctx context.Context, channelID int64, pingTag string) error
}

// SendFunc delivers one message to a chat.
type SendFunc func(chatID int64, text string) error

// Service owns setup and broadcasting.
type Service struct {
	store       ConfigStore
	send        SendFunc
	countdown   func() time.Duration // time until the next window boundary
	checkinHour int
	metrics     metrics.Collector
}

// NewService creates the broadcast service.
func NewService(store ConfigStore, send SendFunc, countdown func() time.Duration, checkinHour int, collector metrics.Collector) *Service {
	return &Service{
		store:       store,
		send:        send,
		countdown:   countdown,
		checkinHour: checkinHour,
		metrics:     collector,
	}
}

// Setup persists the destination chat and ping tag. The tag must be a
// usable mention (@name or #tag); anything else aborts with
// common.ErrMalformedMention and nothing is written.
func (s *Service) Setup(ctx context.Context, channelID int64, pingTag string) error {
	tag := strings.TrimSpace(pingTag)
	if len(tag) < 2 || (tag[0] != '@' && tag[0] != '#') {
		return common.ErrMalformedMention
	}
	if err := s.store.Set(ctx, channelID, tag); err != nil {
		s.metrics.RecordStoreError("setup")
		return fmt.Errorf("setup: %w", err)
	}
	log.WithFields(log.Fields{
		"channel_id": channelID,
		"ping_tag":   tag,
	}).Info("Server config saved")
	return nil
}

// SendDailyPost announces the open check-in window. Called by the
// scheduler at the configured hour; common.ErrConfigMissing is returned
// unchanged so the caller can skip silently.
func (s *Service) SendDailyPost(ctx context.Context) error {
	return s.post(ctx, "daily", func(cfg *ServerConfig) string {
		return fmt.Sprintf(
			"🔥 %s The %02d:00 check-in window is open! Post !streakon to keep your streak alive 💪",
			cfg.PingTag, s.checkinHour,
		)
	})
}

// SendReminder warns that the window boundary is approaching.
func (s *Service) SendReminder(ctx context.Context) error {
	return s.post(ctx, "reminder", func(cfg *ServerConfig) string {
		return fmt.Sprintf(
			"⏳ %s %s until today's check-in window. Get ready!",
			cfg.PingTag, common.FormatCountdown(s.countdown()),
		)
	})
}

// SendTestPost is the manual trigger behind !testpost. Same message as
// the daily post; a missing config is the caller's problem to report.
func (s *Service) SendTestPost(ctx context.Context) error {
	return s.post(ctx, "test", func(cfg *ServerConfig) string {
		return fmt.Sprintf(
			"🔥 %s The %02d:00 check-in window is open! Post !streakon to keep your streak alive 💪",
			cfg.PingTag, s.checkinHour,
		)
	})
}

func (s *Service) post(ctx context.Context, kind string, compose func(cfg *ServerConfig) string) error {
	cfg, err := s.store.Get(ctx)
	if errors.Is(err, common.ErrConfigMissing) {
		s.metrics.RecordBroadcastSkipped()
		return err
	}
	if err != nil {
		s.metrics.RecordStoreError("config_read")
		return fmt.Errorf("broadcast config read: %w", err)
	}

	if err := s.send(cfg.ChannelID, compose(cfg)); err != nil {
		return fmt.Errorf("broadcast send (%s): %w", kind, err)
	}
	s.metrics.RecordBroadcastSent(kind)
	return nil
}
