// Package streak — ranks.go maps a streak counter to a cosmetic title.
package streak

// Rank is one row of the threshold table.
type Rank struct {
	Threshold int
	Title     string
}

// UnrankedTitle is the sentinel for streaks below every threshold.
const UnrankedTitle = "Unranked"

// rankTable is static configuration, sorted by threshold descending.
// Classification scans top-down and takes the first threshold ≤ streak.
var rankTable = []Rank{
	{100, "Absolute"},
	{75, "S-Rank"},
	{50, "A-Rank"},
	{30, "B-Rank"},
	{14, "C-Rank"},
	{7, "D-Rank"},
	{1, "E-Rank"},
	{0, UnrankedTitle},
}

// Classify returns the title for a streak counter.
func Classify(streak int) string {
	for _, r := range rankTable {
		if streak >= r.Threshold {
			return r.Title
		}
	}
	return UnrankedTitle
}
