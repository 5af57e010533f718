// Package transfers reads the per-branch transfer CSV exports and
// writes the per-week corrected artifacts.
package transfers

import (
	"time"
)

// WeekRange is one Monday–Sunday window.
type WeekRange struct {
	Start time.Time
	End   time.Time
}

// Label is the artifact-compatible week label, <start>_<end> ISO dates.
func (w WeekRange) Label() string {
	return w.Start.Format("2006-01-02") + "_" + w.End.Format("2006-01-02")
}

// WeekBoundaries returns the Monday and Sunday of the week containing d.
func WeekBoundaries(d time.Time) (time.Time, time.Time) {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	// time.Weekday has Sunday=0; shift so Monday=0.
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// WeekRanges returns n Monday–Sunday windows ending at or before end,
// most recent first. Windows are 7 days, non-overlapping and adjacent:
// each starts the day after the next one ends.
func WeekRanges(end time.Time, n int) []WeekRange {
	_, lastSunday := WeekBoundaries(end)
	out := make([]WeekRange, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, WeekRange{
			Start: lastSunday.AddDate(0, 0, -6-i*7),
			End:   lastSunday.AddDate(0, 0, -i*7),
		})
	}
	return out
}
