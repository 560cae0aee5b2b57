package engine

import (
	"fmt"
	"time"
)

// LocalDate is a calendar date with no time or zone attached. Exclusions
// compare by local date only: an exclusion means "skip this day", not
// "skip this exact timestamp".
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseLocalDate parses an ISO-8601 date such as "2025-06-11".
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("parse local date %q: %w", s, err)
	}
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// LocalDateOf returns the calendar date of t as observed in loc.
func LocalDateOf(t time.Time, loc *time.Location) LocalDate {
	local := t.In(loc)
	return LocalDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FilterExclusions drops occurrences whose local date in loc matches an
// exclusion. Filtering is idempotent.
func FilterExclusions(occurrences []time.Time, exclusions []LocalDate, loc *time.Location) []time.Time {
	if len(exclusions) == 0 {
		return occurrences
	}

	excluded := make(map[LocalDate]bool, len(exclusions))
	for _, d := range exclusions {
		excluded[d] = true
	}

	kept := make([]time.Time, 0, len(occurrences))
	for _, occ := range occurrences {
		if excluded[LocalDateOf(occ, loc)] {
			continue
		}
		kept = append(kept, occ)
	}
	return kept
}
