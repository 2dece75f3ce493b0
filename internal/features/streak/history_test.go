package streak

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyphs(s string) []string {
	var out []string
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func TestRenderHistory_NoRecord(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 22, 0, 0)

	got := e.RenderHistory(now, nil)
	assert.Equal(t, strings.Repeat(glyphMissed, HistoryDays), got)
}

func TestRenderHistory_RecentStreak(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 22, 0, 0)

	// Checked in tonight with a 3-day streak: today and the two days
	// before are covered, the four oldest are not.
	rec := &Record{UserID: "u", Streak: 3, LastUpdated: now}

	got := glyphs(e.RenderHistory(now, rec))
	require.Len(t, got, HistoryDays)
	want := []string{glyphMissed, glyphMissed, glyphMissed, glyphMissed, glyphChecked, glyphChecked, glyphChecked}
	assert.Equal(t, want, got)
}

func TestRenderHistory_StaleStreak(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 22, 0, 0)

	// Last check-in was yesterday evening, streak 2: yesterday and the
	// day before are marked, today is not (yet).
	rec := &Record{
		UserID:      "u",
		Streak:      2,
		LastUpdated: at(t, e, 2025, time.June, 9, 22, 0, 0),
	}

	got := glyphs(e.RenderHistory(now, rec))
	want := []string{glyphMissed, glyphMissed, glyphMissed, glyphMissed, glyphChecked, glyphChecked, glyphMissed}
	assert.Equal(t, want, got)
}

func TestRenderHistory_PreBoundaryStampBelongsToPreviousWindow(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 22, 0, 0)

	// A stamp from this morning (before 21:00) is part of the window
	// that opened yesterday evening, so yesterday is the marked day.
	rec := &Record{
		UserID:      "u",
		Streak:      1,
		LastUpdated: at(t, e, 2025, time.June, 10, 8, 0, 0),
	}

	got := glyphs(e.RenderHistory(now, rec))
	want := []string{glyphMissed, glyphMissed, glyphMissed, glyphMissed, glyphMissed, glyphChecked, glyphMissed}
	assert.Equal(t, want, got)
}

func TestRenderHistory_LongStreakFillsStrip(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 22, 0, 0)

	rec := &Record{UserID: "u", Streak: 30, LastUpdated: now}

	got := e.RenderHistory(now, rec)
	assert.Equal(t, strings.Repeat(glyphChecked, HistoryDays), got)
}

func TestRenderHistory_Idempotent(t *testing.T) {
	e := testEngine(t)
	now := at(t, e, 2025, time.June, 10, 22, 0, 0)
	rec := &Record{UserID: "u", Streak: 4, LastUpdated: now}

	first := e.RenderHistory(now, rec)
	second := e.RenderHistory(now, rec)
	assert.Equal(t, first, second)
}
