// Package rule defines the recurrence rule value types shared by the
// expansion engine and the pattern describer, together with their wire
// encoding and eager validation.
package rule

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Frequency is the base unit a recurrence repeats over. The zero value is
// deliberately not a valid frequency so that "frequency present" can be
// validated.
type Frequency int

const (
	FreqUnspecified Frequency = iota
	Secondly
	Minutely
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
)

var frequencyNames = map[Frequency]string{
	Secondly: "SECONDLY",
	Minutely: "MINUTELY",
	Hourly:   "HOURLY",
	Daily:    "DAILY",
	Weekly:   "WEEKLY",
	Monthly:  "MONTHLY",
	Yearly:   "YEARLY",
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// ParseFrequency parses a wire frequency name such as "WEEKLY".
func ParseFrequency(s string) (Frequency, error) {
	for f, name := range frequencyNames {
		if name == s {
			return f, nil
		}
	}
	return FreqUnspecified, &Error{Type: ErrInvalidFrequency, Message: fmt.Sprintf("unknown frequency %q", s)}
}

// Rule is an abstract recurrence pattern. It is a plain value: construct
// it, validate it, hand it to the engine. The engine never mutates it.
//
// TimeZone is the authoritative frame for "day of week" and "time of day"
// throughout expansion.
type Rule struct {
	Frequency  Frequency
	Interval   int // 0 is treated as 1
	Count      int // 0 = unset; mutually exclusive with Until
	Until      mo.Option[time.Time]
	ByWeekday  []WeekdaySpec
	ByMonthDay []int // 1..31, negative counts from month end
	BySetPos   []int // nth occurrence within period, negative from end
	ByMonth    []int // 1..12
	WeekStart  mo.Option[time.Weekday]
	TimeZone   string // IANA identifier
}

// EffectiveInterval returns the interval with the default of 1 applied.
func (r Rule) EffectiveInterval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// WeekdaySet returns the set of selected weekdays, ignoring positions.
func (r Rule) WeekdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(r.ByWeekday))
	for _, spec := range r.ByWeekday {
		set[spec.Day] = true
	}
	return set
}

// Validate checks the rule's invariants eagerly, before any expansion
// begins. A rule that passes Validate either expands fully or not at all;
// there is no partial success.
func (r Rule) Validate() error {
	if _, ok := frequencyNames[r.Frequency]; !ok {
		return &Error{Type: ErrInvalidFrequency, Message: "recurrence rule must have a frequency"}
	}
	if r.Interval < 0 {
		return &Error{Type: ErrInvalidRule, Message: fmt.Sprintf("interval must be positive, got %d", r.Interval)}
	}
	if r.Count < 0 {
		return &Error{Type: ErrInvalidRule, Message: fmt.Sprintf("count must be positive, got %d", r.Count)}
	}
	if r.Count > 0 && r.Until.IsPresent() {
		return &Error{Type: ErrConflictingTerminator, Message: "count and until are mutually exclusive"}
	}
	if len(r.BySetPos) > 0 && len(r.ByWeekday) == 0 {
		return &Error{Type: ErrMissingWeekdaySelector, Message: "bysetpos requires a byweekday selector"}
	}
	// For monthly patterns byweekday and bymonthday are mutually exclusive
	// in effect; the caller must clear one rather than have the engine
	// guess precedence.
	if r.Frequency == Monthly && len(r.ByWeekday) > 0 && len(r.ByMonthDay) > 0 {
		return &Error{Type: ErrConflictingDaySelectors, Message: "monthly rules may set byweekday or bymonthday, not both"}
	}
	for _, d := range r.ByMonthDay {
		if d == 0 || d < -31 || d > 31 {
			return &Error{Type: ErrInvalidRule, Message: fmt.Sprintf("bymonthday value %d out of range", d)}
		}
	}
	for _, m := range r.ByMonth {
		if m < 1 || m > 12 {
			return &Error{Type: ErrInvalidRule, Message: fmt.Sprintf("bymonth value %d out of range", m)}
		}
	}
	for _, p := range r.BySetPos {
		if p == 0 {
			return &Error{Type: ErrInvalidRule, Message: "bysetpos value must be non-zero"}
		}
	}
	return nil
}
