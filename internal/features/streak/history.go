// Package streak — history.go renders the trailing 7-day check-in
// history as a glyph strip. Pure projection over (streak, lastUpdated):
// no store access, same output for the same inputs.
package streak

import (
	"strings"
	"time"
)

// HistoryDays is the length of the rendered strip.
const HistoryDays = 7

const (
	glyphChecked = "🟩"
	glyphMissed  = "⬛"
)

// RenderHistory returns HistoryDays glyphs, oldest day first, today
// last. A day is marked checked-in when its window falls inside the
// unbroken span of the streak: the rec.Streak most recent windows
// ending at lastUpdated's window.
func (e *Engine) RenderHistory(now time.Time, rec *Record) string {
	var marked [HistoryDays]bool

	if rec != nil && rec.Streak > 0 && !rec.LastUpdated.IsZero() {
		// Identify windows by the calendar date their boundary falls on.
		lastDay := e.dateOf(e.WindowStart(rec.LastUpdated))
		firstDay := lastDay.AddDate(0, 0, -(rec.Streak - 1))
		today := e.dateOf(now)

		for i := 0; i < HistoryDays; i++ {
			day := today.AddDate(0, 0, i-(HistoryDays-1))
			if !day.Before(firstDay) && !day.After(lastDay) {
				marked[i] = true
			}
		}
	}

	var b strings.Builder
	for i := 0; i < HistoryDays; i++ {
		if marked[i] {
			b.WriteString(glyphChecked)
		} else {
			b.WriteString(glyphMissed)
		}
	}
	return b.String()
}

// dateOf truncates an instant to midnight of its calendar date in the
// reference timezone.
func (e *Engine) dateOf(t time.Time) time.Time {
	t = t.In(e.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}
