package engine

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cyp0633/librecur/rule"
	"github.com/teambition/rrule-go"
)

// Engine expands recurrence rules into concrete occurrence instants. It is
// stateless and safe for concurrent use; every call's state lives on its
// own stack.
type Engine struct {
	logger *slog.Logger
	config Config
}

// NewEngine creates an engine with the default configuration
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig)
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config Config) *Engine {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.MaxOccurrences <= 0 {
		config.MaxOccurrences = DefaultConfig.MaxOccurrences
	}
	if config.CorrectionWindowDays <= 0 {
		config.CorrectionWindowDays = DefaultConfig.CorrectionWindowDays
	}
	if config.WideCorrectionWindowDays <= config.CorrectionWindowDays {
		config.WideCorrectionWindowDays = DefaultConfig.WideCorrectionWindowDays
	}
	return &Engine{
		logger: config.Logger,
		config: config,
	}
}

// Expand validates r, resolves the anchor from start in r.TimeZone and
// returns up to count occurrence instants, UTC-normalized and strictly
// increasing. The local weekday and time of day of every occurrence match
// the rule and anchor as observed in r.TimeZone.
func (e *Engine) Expand(start time.Time, r rule.Rule, count int) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	anchor, err := ResolveAnchor(start, r.TimeZone)
	if err != nil {
		return nil, err
	}
	return e.expand(anchor, r, count)
}

// ExpandUTC expands a rule whose caller truly has no timezone. The rule's
// TimeZone field is ignored and all calendar math happens in UTC.
func (e *Engine) ExpandUTC(start time.Time, r rule.Rule, count int) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return e.expand(ResolveAnchorUTC(start), r, count)
}

// ExpandFromAnchor expands against an already-resolved anchor.
func (e *Engine) ExpandFromAnchor(anchor Anchor, r rule.Rule, count int) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return e.expand(anchor, r, count)
}

// ExpandWithExclusions expands like Expand and then drops occurrences
// whose local calendar date matches an exclusion. The result may hold
// fewer than count instants.
func (e *Engine) ExpandWithExclusions(start time.Time, r rule.Rule, count int, exclusions []LocalDate) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	anchor, err := ResolveAnchor(start, r.TimeZone)
	if err != nil {
		return nil, err
	}
	occurrences, err := e.expand(anchor, r, count)
	if err != nil {
		return nil, err
	}
	return FilterExclusions(occurrences, exclusions, anchor.Location), nil
}

func (e *Engine) expand(anchor Anchor, r rule.Rule, count int) ([]time.Time, error) {
	if count < 0 {
		return nil, &rule.Error{Type: rule.ErrInvalidRule, Message: fmt.Sprintf("requested count must be non-negative, got %d", count)}
	}
	if count == 0 {
		return []time.Time{}, nil
	}

	option, err := rruleOptions(anchor, r)
	if err != nil {
		return nil, err
	}
	rr, err := rrule.NewRRule(option)
	if err != nil {
		return nil, &rule.Error{Type: rule.ErrInvalidRule, Message: "failed to build recurrence iterator", Err: err}
	}

	limit := count
	if limit > e.config.MaxOccurrences {
		limit = e.config.MaxOccurrences
	}

	occurrences := make([]time.Time, 0, limit)
	next := rr.Iterator()
	for len(occurrences) < limit {
		t, ok := next()
		if !ok {
			break
		}
		occurrences = append(occurrences, t)
	}

	occurrences = e.verifyAndCorrect(anchor, r, occurrences)

	for i := range occurrences {
		occurrences[i] = occurrences[i].UTC()
	}
	return occurrences, nil
}

// rruleOptions translates rule + anchor into rrule-go options. Dtstart is
// constructed in the anchor's location so the underlying iteration happens
// on local calendar fields, never by adding fixed offsets to instants.
func rruleOptions(anchor Anchor, r rule.Rule) (rrule.ROption, error) {
	freq, err := rruleFrequency(r.Frequency)
	if err != nil {
		return rrule.ROption{}, err
	}

	option := rrule.ROption{
		Freq:       freq,
		Dtstart:    anchor.Time(),
		Interval:   r.EffectiveInterval(),
		Bysetpos:   r.BySetPos,
		Bymonthday: r.ByMonthDay,
		Bymonth:    r.ByMonth,
	}

	if r.Count > 0 {
		option.Count = r.Count
	}
	if until, ok := r.Until.Get(); ok {
		// Terminate by local calendar date, inclusive: an occurrence on
		// until's local date still counts, whatever its time of day.
		local := until.In(anchor.Location)
		option.Until = time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, anchor.Location)
	}

	if len(r.ByWeekday) > 0 {
		for _, spec := range r.ByWeekday {
			wd := rruleWeekday(spec.Day)
			if n, ok := spec.Position.Get(); ok {
				wd = wd.Nth(n)
			}
			option.Byweekday = append(option.Byweekday, wd)
		}
	} else if r.Frequency == rule.Weekly {
		// A weekly series with no explicit day selection repeats on the
		// same local weekday as the start.
		option.Byweekday = []rrule.Weekday{rruleWeekday(anchor.Weekday())}
	}

	if wkst, ok := r.WeekStart.Get(); ok {
		option.Wkst = rruleWeekday(wkst)
	}

	return option, nil
}

func rruleFrequency(f rule.Frequency) (rrule.Frequency, error) {
	switch f {
	case rule.Yearly:
		return rrule.YEARLY, nil
	case rule.Monthly:
		return rrule.MONTHLY, nil
	case rule.Weekly:
		return rrule.WEEKLY, nil
	case rule.Daily:
		return rrule.DAILY, nil
	case rule.Hourly:
		return rrule.HOURLY, nil
	case rule.Minutely:
		return rrule.MINUTELY, nil
	case rule.Secondly:
		return rrule.SECONDLY, nil
	default:
		return 0, &rule.Error{Type: rule.ErrInvalidFrequency, Message: fmt.Sprintf("frequency %v has no rrule mapping", f)}
	}
}

var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func rruleWeekday(d time.Weekday) rrule.Weekday {
	return rruleWeekdays[int(d)%7]
}
