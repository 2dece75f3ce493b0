package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streakbot/internal/common"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return NewEngine(loc, 21)
}

func at(t *testing.T, e *Engine, year int, month time.Month, day, hour, minute, sec int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, minute, sec, 0, e.Location())
}

func TestWindowStart(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "after boundary, window started today",
			now:  at(t, e, 2025, time.June, 10, 22, 30, 0),
			want: at(t, e, 2025, time.June, 10, 21, 0, 0),
		},
		{
			name: "before boundary, window started yesterday",
			now:  at(t, e, 2025, time.June, 10, 8, 0, 0),
			want: at(t, e, 2025, time.June, 9, 21, 0, 0),
		},
		{
			name: "exactly at boundary, window starts now",
			now:  at(t, e, 2025, time.June, 10, 21, 0, 0),
			want: at(t, e, 2025, time.June, 10, 21, 0, 0),
		},
		{
			name: "first of month rolls back into previous month",
			now:  at(t, e, 2024, time.March, 1, 20, 0, 0),
			want: at(t, e, 2024, time.February, 29, 21, 0, 0),
		},
		{
			name: "new year rolls back into previous year",
			now:  at(t, e, 2025, time.January, 1, 20, 59, 0),
			want: at(t, e, 2024, time.December, 31, 21, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(e.WindowStart(tt.now)),
				"WindowStart(%v) = %v, want %v", tt.now, e.WindowStart(tt.now), tt.want)
		})
	}
}

func TestEvaluate_FirstTimer(t *testing.T) {
	e := testEngine(t)

	t.Run("before boundary must wait", func(t *testing.T) {
		now := at(t, e, 2025, time.June, 10, 20, 59, 0)
		d := e.Evaluate(now, nil)
		assert.False(t, d.Accepted)
		assert.ErrorIs(t, d.Reason, common.ErrWindowNotOpen)
	})

	t.Run("after boundary starts at one", func(t *testing.T) {
		now := at(t, e, 2025, time.June, 10, 21, 1, 0)
		d := e.Evaluate(now, nil)
		assert.True(t, d.Accepted)
		assert.Equal(t, 1, d.NewStreak)
		assert.True(t, now.Equal(d.NewLastUpdated))
	})
}

// Full life of a streak: first check-in, next-day check-in, and an
// early-morning retry that is still inside the previous night's window.
func TestEvaluate_Scenario(t *testing.T) {
	e := testEngine(t)

	// 20:59 with no record: rejected.
	d := e.Evaluate(at(t, e, 2025, time.June, 10, 20, 59, 0), nil)
	assert.False(t, d.Accepted)

	// 21:01 same day: accepted, streak 1.
	d = e.Evaluate(at(t, e, 2025, time.June, 10, 21, 1, 0), nil)
	require.True(t, d.Accepted)
	rec := &Record{UserID: "u", Streak: d.NewStreak, LastUpdated: d.NewLastUpdated}
	assert.Equal(t, 1, rec.Streak)

	// 21:05 next day: accepted, streak 2.
	d = e.Evaluate(at(t, e, 2025, time.June, 11, 21, 5, 0), rec)
	require.True(t, d.Accepted)
	rec = &Record{UserID: "u", Streak: d.NewStreak, LastUpdated: d.NewLastUpdated}
	assert.Equal(t, 2, rec.Streak)

	// 08:00 the following morning: still the window opened at 21:00
	// the evening before — rejected.
	d = e.Evaluate(at(t, e, 2025, time.June, 12, 8, 0, 0), rec)
	assert.False(t, d.Accepted)
	assert.ErrorIs(t, d.Reason, common.ErrAlreadyCheckedIn)
}

func TestEvaluate_SecondCallSameInstantRejects(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 21, 30, 0)

	d := e.Evaluate(now, nil)
	require.True(t, d.Accepted)
	rec := &Record{UserID: "u", Streak: d.NewStreak, LastUpdated: d.NewLastUpdated}

	d = e.Evaluate(now, rec)
	assert.False(t, d.Accepted)
	assert.ErrorIs(t, d.Reason, common.ErrAlreadyCheckedIn)
}

// Check-ins one second either side of a boundary that also crosses a
// month end: both accepted, each incrementing by exactly one.
func TestEvaluate_BoundaryCrossingPair(t *testing.T) {
	e := testEngine(t)

	rec := &Record{
		UserID:      "u",
		Streak:      5,
		LastUpdated: at(t, e, 2024, time.February, 28, 21, 30, 0),
	}

	// Feb 29 20:59:59 — inside the window that opened Feb 28 21:00?
	// No: the stamp is from that window, so this would reject. Move the
	// stamp one window back to make the first of the pair eligible.
	rec.LastUpdated = at(t, e, 2024, time.February, 27, 21, 30, 0)

	before := at(t, e, 2024, time.February, 29, 20, 59, 59)
	d := e.Evaluate(before, rec)
	require.True(t, d.Accepted)
	assert.Equal(t, 6, d.NewStreak)
	rec = &Record{UserID: "u", Streak: d.NewStreak, LastUpdated: d.NewLastUpdated}

	after := at(t, e, 2024, time.February, 29, 21, 0, 1)
	d = e.Evaluate(after, rec)
	require.True(t, d.Accepted)
	assert.Equal(t, 7, d.NewStreak)
}

func TestEvaluate_ResetClearsWindowLock(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 8, 0, 0)

	// A reset record carries streak 0 and the reset stamp. The stamp is
	// not a check-in: the very next attempt must be accepted, even
	// before the daily boundary.
	rec := &Record{UserID: "u", Streak: 0, LastUpdated: now}

	d := e.Evaluate(now, rec)
	assert.True(t, d.Accepted)
	assert.Equal(t, 1, d.NewStreak)
}

func TestTimeToNextWindow(t *testing.T) {
	e := testEngine(t)

	t.Run("just before boundary approaches zero", func(t *testing.T) {
		now := at(t, e, 2025, time.June, 10, 20, 59, 59)
		assert.Equal(t, time.Second, e.TimeToNextWindow(now))
	})

	t.Run("just after boundary is just under a day", func(t *testing.T) {
		now := at(t, e, 2025, time.June, 10, 21, 0, 1)
		assert.Equal(t, 24*time.Hour-time.Second, e.TimeToNextWindow(now))
	})

	t.Run("always within a day", func(t *testing.T) {
		for hour := 0; hour < 24; hour++ {
			now := at(t, e, 2025, time.June, 10, hour, 13, 7)
			d := e.TimeToNextWindow(now)
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.Less(t, d, 24*time.Hour)
		}
	})

	t.Run("month boundary", func(t *testing.T) {
		now := at(t, e, 2024, time.February, 29, 22, 0, 0)
		assert.Equal(t, 23*time.Hour, e.TimeToNextWindow(now))
	})
}
