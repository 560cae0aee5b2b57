package rule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Two-letter weekday codes, indexed by time.Weekday (Sunday = 0).
var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// WeekdaySpec selects a weekday, optionally pinned to the nth occurrence
// of that weekday within the enclosing period: "2WE" is the second
// Wednesday, "-1FR" the last Friday. The string form is the wire encoding
// only; it is parsed once at the boundary and everything downstream works
// on this struct.
type WeekdaySpec struct {
	Day      time.Weekday
	Position mo.Option[int]
}

// ParseWeekday parses a weekday code such as "WE", "2WE" or "-1FR".
// The canonical form carries no "+" sign and no zero position.
func ParseWeekday(code string) (WeekdaySpec, error) {
	if len(code) < 2 {
		return WeekdaySpec{}, &Error{Type: ErrInvalidWeekdayCode, Message: fmt.Sprintf("weekday code %q too short", code)}
	}

	day, ok := weekdayFromCode(code[len(code)-2:])
	if !ok {
		return WeekdaySpec{}, &Error{Type: ErrInvalidWeekdayCode, Message: fmt.Sprintf("unknown weekday in code %q", code)}
	}

	spec := WeekdaySpec{Day: day}
	if pos := code[:len(code)-2]; pos != "" {
		n, err := strconv.Atoi(pos)
		if err != nil || n == 0 || strings.HasPrefix(pos, "+") {
			return WeekdaySpec{}, &Error{Type: ErrInvalidWeekdayCode, Message: fmt.Sprintf("invalid position in weekday code %q", code), Err: err}
		}
		spec.Position = mo.Some(n)
	}
	return spec, nil
}

// String is the exact inverse of ParseWeekday.
func (s WeekdaySpec) String() string {
	code := weekdayCodes[int(s.Day)%7]
	if n, ok := s.Position.Get(); ok {
		return strconv.Itoa(n) + code
	}
	return code
}

// WeekdayCode returns the two-letter code for a weekday ("MO" for Monday).
func WeekdayCode(d time.Weekday) string {
	return weekdayCodes[int(d)%7]
}

// ParseWeekdayCode parses a bare two-letter weekday code without position,
// as used for the WKST field.
func ParseWeekdayCode(code string) (time.Weekday, error) {
	day, ok := weekdayFromCode(code)
	if !ok {
		return 0, &Error{Type: ErrInvalidWeekdayCode, Message: fmt.Sprintf("unknown weekday code %q", code)}
	}
	return day, nil
}

func weekdayFromCode(code string) (time.Weekday, bool) {
	for i, c := range weekdayCodes {
		if c == code {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
