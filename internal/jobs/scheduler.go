// Package jobs runs the background schedule: the daily window-open
// post and the pre-window reminder.
//
// cron computes the exact next activation in the reference timezone
// and sleeps until then — no minute-polling, no double fire within a
// minute, and ticks missed during downtime are simply not back-filled.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/common"
	"streakbot/internal/features/broadcast"
)

// Scheduler owns the cron instance.
type Scheduler struct {
	cron             *cron.Cron
	broadcastService *broadcast.Service
	broadcastHour    int
	reminderHour     int
}

// NewScheduler creates a scheduler bound to the reference timezone.
func NewScheduler(loc *time.Location, broadcastService *broadcast.Service, broadcastHour, reminderHour int) *Scheduler {
	return &Scheduler{
		cron:             cron.New(cron.WithLocation(loc)),
		broadcastService: broadcastService,
		broadcastHour:    broadcastHour,
		reminderHour:     reminderHour,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.AddFunc(fmt.Sprintf("0 %d * * *", s.broadcastHour), func() {
		log.Info("[CRON] daily window post")
		if err := s.broadcastService.SendDailyPost(ctx); err != nil {
			if errors.Is(err, common.ErrConfigMissing) {
				log.Debug("[CRON] no server config, daily post skipped")
				return
			}
			log.WithError(err).Error("[CRON] daily post failed")
		}
	})

	s.cron.AddFunc(fmt.Sprintf("0 %d * * *", s.reminderHour), func() {
		log.Info("[CRON] pre-window reminder")
		if err := s.broadcastService.SendReminder(ctx); err != nil {
			if errors.Is(err, common.ErrConfigMissing) {
				log.Debug("[CRON] no server config, reminder skipped")
				return
			}
			log.WithError(err).Error("[CRON] reminder failed")
		}
	})

	s.cron.Start()
	log.WithFields(log.Fields{
		"broadcast_hour": s.broadcastHour,
		"reminder_hour":  s.reminderHour,
	}).Info("Scheduler started")
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}
