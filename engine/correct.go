package engine

import (
	"sort"
	"time"

	"github.com/cyp0633/librecur/rule"
)

// verifyAndCorrect enforces the central weekday invariant for weekly
// rules: every occurrence's local weekday must be in the selected set.
//
// A mismatch only appears when a generation path computed the calendar
// date on UTC boundaries instead of local ones — a 10pm Monday in New
// York is already Tuesday in UTC, and a weekly series can silently slide
// a day. Repair shifts the occurrence by the minimal signed day offset
// that lands on an allowed local weekday, preserving the local time of
// day exactly; the selection itself is never changed.
func (e *Engine) verifyAndCorrect(anchor Anchor, r rule.Rule, occurrences []time.Time) []time.Time {
	if r.Frequency != rule.Weekly {
		return occurrences
	}

	allowed := r.WeekdaySet()
	if len(allowed) == 0 {
		allowed = map[time.Weekday]bool{anchor.Weekday(): true}
	}

	corrected := make([]time.Time, len(occurrences))
	copy(corrected, occurrences)

	changed := false
	for i, occ := range corrected {
		local := occ.In(anchor.Location)
		if allowed[local.Weekday()] {
			continue
		}

		shifted, ok := shiftToAllowedWeekday(local, allowed, e.config.CorrectionWindowDays)
		if !ok {
			shifted, ok = shiftToAllowedWeekday(local, allowed, e.config.WideCorrectionWindowDays)
		}
		if !ok {
			// Degraded result: a date on the wrong weekday beats no date
			// at all for a preview.
			e.logger.Warn("could not repair occurrence weekday",
				"occurrence", occ,
				"local_weekday", local.Weekday().String(),
				"timezone", anchor.Location.String())
			continue
		}

		e.logger.Debug("shifted occurrence to selected weekday",
			"from", occ,
			"to", shifted,
			"timezone", anchor.Location.String())
		corrected[i] = shifted
		changed = true
	}

	if changed {
		sort.Slice(corrected, func(i, j int) bool { return corrected[i].Before(corrected[j]) })
		corrected = dedupeSorted(corrected)
	}
	return corrected
}

// dedupeSorted drops repeated instants from a sorted slice. A repair can
// land a shifted occurrence on top of a neighboring one; the series must
// stay strictly increasing.
func dedupeSorted(occurrences []time.Time) []time.Time {
	out := occurrences[:0]
	for i, occ := range occurrences {
		if i > 0 && occ.Equal(occurrences[i-1]) {
			continue
		}
		out = append(out, occ)
	}
	return out
}

// shiftToAllowedWeekday searches offsets -1, +1, -2, +2, ... up to ±window
// days and rebuilds the occurrence on the first allowed weekday, keeping
// the local time of day.
func shiftToAllowedWeekday(local time.Time, allowed map[time.Weekday]bool, window int) (time.Time, bool) {
	for delta := 1; delta <= window; delta++ {
		for _, offset := range [2]int{-delta, delta} {
			candidate := time.Date(local.Year(), local.Month(), local.Day()+offset,
				local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), local.Location())
			if allowed[candidate.Weekday()] {
				return candidate, true
			}
		}
	}
	return time.Time{}, false
}
