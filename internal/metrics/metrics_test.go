package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPromCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCheckInAccepted()
	c.RecordCheckInAccepted()
	c.RecordCheckInRejected("window_not_open")
	c.RecordCheckInRejected("window_not_open")
	c.RecordCheckInRejected("race")
	c.RecordStreakReset()
	c.RecordBroadcastSent("daily")
	c.RecordBroadcastSkipped()
	c.RecordStoreError("checkin_write")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.checkinAccepted))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.checkinRejected.WithLabelValues("window_not_open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.checkinRejected.WithLabelValues("race")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.streakResets))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.broadcastsSent.WithLabelValues("daily")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.broadcastsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeErrors.WithLabelValues("checkin_write")))
}

func TestNopSatisfiesCollector(t *testing.T) {
	var c Collector = Nop{}
	c.RecordCheckInAccepted()
	c.RecordCheckInRejected("any")
	c.RecordStreakReset()
	c.RecordBroadcastSent("daily")
	c.RecordBroadcastSkipped()
	c.RecordStoreError("any")
	assert.NotNil(t, c)
}
