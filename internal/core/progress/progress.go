// Package progress contains the pure progress math for assignments and
// cycles. Everything here is recomputed from inputs on every call; there
// is no cached state, since readings arrive asynchronously from field
// staff outside this core's control.
package progress

import (
	"math"
	"time"
)

// Snapshot is the completion state of one assignment's unit set.
type Snapshot struct {
	TotalUnits   int
	ReadingsDone int
	Remaining    int
	Percent      int
}

// Complete reports whether every unit in the set has a qualifying reading.
func (s Snapshot) Complete() bool {
	return s.Remaining == 0
}

// Qualifies reports whether a reading taken at readAt counts for a cycle
// period. The rule: the reading's date falls within [periodFrom, periodTo]
// inclusive, at day precision. A most-recent-reading-at-all rule was
// rejected because it would count stale pre-period readings.
func Qualifies(readAt, periodFrom, periodTo time.Time) bool {
	day := readAt.UTC().Truncate(24 * time.Hour)
	from := periodFrom.UTC().Truncate(24 * time.Hour)
	to := periodTo.UTC().Truncate(24 * time.Hour)
	return !day.Before(from) && !day.After(to)
}

// Compute derives a Snapshot for a frozen unit set. lastRead maps unit ID
// to the most recent reading date of that unit's meter; units with no
// reading at all are simply absent from the map.
//
// Percent is rounded half away from zero. An empty unit set reports 100
// for display purposes only; creation guards reject empty assignments, so
// this branch is only reachable for defensive display of legacy data.
func Compute(unitIDs []string, lastRead map[string]time.Time, periodFrom, periodTo time.Time) Snapshot {
	total := len(unitIDs)
	done := 0
	for _, id := range unitIDs {
		readAt, ok := lastRead[id]
		if ok && Qualifies(readAt, periodFrom, periodTo) {
			done++
		}
	}

	percent := 100
	if total > 0 {
		percent = int(math.Round(float64(done) / float64(total) * 100))
	}

	return Snapshot{
		TotalUnits:   total,
		ReadingsDone: done,
		Remaining:    total - done,
		Percent:      percent,
	}
}

// AllComplete reports whether a cycle as a whole is fully read: at least
// one active assignment exists, every active assignment's remaining is
// zero, and no eligible unit is left unassigned. A cycle with no
// assignments has partitioned no work and is never complete.
func AllComplete(snapshots []Snapshot, totalUnassigned int) bool {
	if len(snapshots) == 0 {
		return false
	}
	for _, s := range snapshots {
		if !s.Complete() {
			return false
		}
	}
	return totalUnassigned == 0
}
