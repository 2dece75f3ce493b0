// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the metrics surface used by the service layer.
// Swapped for Nop in tests that do not assert on metrics.
type Collector interface {
	RecordCheckInAccepted()
	RecordCheckInRejected(reason string)
	RecordStreakReset()
	RecordBroadcastSent(kind string)
	RecordBroadcastSkipped()
	RecordStoreError(op string)
}

// PromCollector implements Collector on top of Prometheus counters.
type PromCollector struct {
	checkinAccepted   prometheus.Counter
	checkinRejected   *prometheus.CounterVec
	streakResets      prometheus.Counter
	broadcastsSent    *prometheus.CounterVec
	broadcastsSkipped prometheus.Counter
	storeErrors       *prometheus.CounterVec
}

// NewCollector creates a PromCollector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		checkinAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streakbot_checkin_accepted_total",
			Help: "Accepted check-ins.",
		}),
		checkinRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streakbot_checkin_rejected_total",
			Help: "Rejected check-ins by reason.",
		}, []string{"reason"}),
		streakResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streakbot_streak_reset_total",
			Help: "Streak resets.",
		}),
		broadcastsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streakbot_broadcast_sent_total",
			Help: "Scheduled and manual broadcasts sent, by kind.",
		}, []string{"kind"}),
		broadcastsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streakbot_broadcast_skipped_total",
			Help: "Broadcasts skipped because no server config is set.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streakbot_store_error_total",
			Help: "Record store failures by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.checkinAccepted,
		c.checkinRejected,
		c.streakResets,
		c.broadcastsSent,
		c.broadcastsSkipped,
		c.storeErrors,
	)

	return c
}

func (c *PromCollector) RecordCheckInAccepted() { c.checkinAccepted.Inc() }

func (c *PromCollector) RecordCheckInRejected(reason string) {
	c.checkinRejected.WithLabelValues(reason).Inc()
}

func (c *PromCollector) RecordStreakReset() { c.streakResets.Inc() }

func (c *PromCollector) RecordBroadcastSent(kind string) {
	c.broadcastsSent.WithLabelValues(kind).Inc()
}

func (c *PromCollector) RecordBroadcastSkipped() { c.broadcastsSkipped.Inc() }

func (c *PromCollector) RecordStoreError(op string) {
	c.storeErrors.WithLabelValues(op).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Collector that does nothing.
type Nop struct{}

func (Nop) RecordCheckInAccepted()        {}
func (Nop) RecordCheckInRejected(string)  {}
func (Nop) RecordStreakReset()            {}
func (Nop) RecordBroadcastSent(string)    {}
func (Nop) RecordBroadcastSkipped()       {}
func (Nop) RecordStoreError(string)       {}
