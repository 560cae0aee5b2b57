package rule

import (
	"errors"
	"fmt"
)

// Error types
type ErrorType string

const (
	ErrInvalidWeekdayCode      ErrorType = "invalid_weekday_code"
	ErrUnknownTimeZone         ErrorType = "unknown_time_zone"
	ErrConflictingTerminator   ErrorType = "conflicting_terminator"
	ErrMissingWeekdaySelector  ErrorType = "missing_weekday_selector"
	ErrConflictingDaySelectors ErrorType = "conflicting_day_selectors"
	ErrInvalidFrequency        ErrorType = "invalid_frequency"
	ErrInvalidRule             ErrorType = "invalid_rule"
)

// Error represents a rule validation or parsing error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsType reports whether err is, or wraps, a *Error with the given type.
func IsType(err error, t ErrorType) bool {
	var re *Error
	return errors.As(err, &re) && re.Type == t
}
