package engine

import (
	"fmt"
	"time"

	"github.com/cyp0633/librecur/rule"
)

// Anchor pins the wall-clock reading of a rule's start instant in its
// timezone. The calendar fields, not the instant, are the source of truth
// for recurrence math: re-projecting them through Location always yields
// the same clock reading, so a 2pm meeting stays 2pm local even when DST
// shifts the UTC offset between occurrences.
type Anchor struct {
	Year     int
	Month    time.Month
	Day      int
	Hour     int
	Minute   int
	Second   int
	Location *time.Location
}

// ResolveAnchor reads the wall-clock fields of start as observed in the
// given IANA timezone. An unresolvable identifier is fatal to the call;
// there is no silent UTC fallback, callers without a timezone use
// ResolveAnchorUTC instead.
func ResolveAnchor(start time.Time, timeZone string) (Anchor, error) {
	if timeZone == "" {
		return Anchor{}, &rule.Error{Type: rule.ErrUnknownTimeZone, Message: "timezone is required (use ResolveAnchorUTC for UTC rules)"}
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return Anchor{}, &rule.Error{Type: rule.ErrUnknownTimeZone, Message: fmt.Sprintf("unknown timezone %q", timeZone), Err: err}
	}
	return anchorIn(start, loc), nil
}

// ResolveAnchorUTC is the explicit UTC entry point for callers that truly
// have no timezone.
func ResolveAnchorUTC(start time.Time) Anchor {
	return anchorIn(start, time.UTC)
}

func anchorIn(start time.Time, loc *time.Location) Anchor {
	local := start.In(loc)
	return Anchor{
		Year:     local.Year(),
		Month:    local.Month(),
		Day:      local.Day(),
		Hour:     local.Hour(),
		Minute:   local.Minute(),
		Second:   local.Second(),
		Location: loc,
	}
}

// Time re-projects the wall-clock fields through the anchor's location.
func (a Anchor) Time() time.Time {
	return time.Date(a.Year, a.Month, a.Day, a.Hour, a.Minute, a.Second, 0, a.Location)
}

// Weekday returns the local weekday of the anchor.
func (a Anchor) Weekday() time.Weekday {
	return a.Time().Weekday()
}
