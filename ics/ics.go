// Package ics bridges iCalendar components to the recurrence rule model:
// it parses RRULE/EXDATE properties out of events and renders expanded
// occurrences back into a preview calendar.
package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cyp0633/librecur/engine"
	"github.com/cyp0633/librecur/rule"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// RuleFromEvent extracts the recurrence rule and exclusion dates of an
// event component. The rule's timezone is taken from the DTSTART TZID
// parameter when present; exclusion datetimes are collapsed to local
// calendar dates in that zone.
func RuleFromEvent(comp *ical.Component) (rule.Rule, []engine.LocalDate, error) {
	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		return rule.Rule{}, nil, &rule.Error{Type: rule.ErrInvalidRule, Message: "component has no RRULE"}
	}

	r, err := ParseRRule(rruleProp.Value)
	if err != nil {
		return rule.Rule{}, nil, err
	}

	loc := time.UTC
	if dtstart := comp.Props.Get(ical.PropDateTimeStart); dtstart != nil {
		if tzid := dtstart.Params.Get("TZID"); tzid != "" {
			r.TimeZone = tzid
			if l, err := time.LoadLocation(tzid); err == nil {
				loc = l
			}
		}
	}

	var exclusions []engine.LocalDate
	for _, prop := range comp.Props[ical.PropExceptionDates] {
		exclusions = append(exclusions, exceptionDates(prop, loc)...)
	}

	return r, exclusions, nil
}

// exceptionDates parses one EXDATE property into local calendar dates.
// Both VALUE=DATE and date-time forms appear in the wild; an exclusion is
// "skip this day", so datetimes are projected into loc and truncated.
func exceptionDates(prop ical.Prop, loc *time.Location) []engine.LocalDate {
	var dates []engine.LocalDate

	isDateOnly := false
	if valueParam := prop.Params["VALUE"]; len(valueParam) > 0 && strings.ToUpper(valueParam[0]) == "DATE" {
		isDateOnly = true
	}

	for _, raw := range strings.Split(prop.Value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		if isDateOnly {
			if t, err := time.Parse("20060102", raw); err == nil {
				dates = append(dates, engine.LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()})
			}
			continue
		}

		if t, err := time.Parse("20060102T150405Z", raw); err == nil {
			dates = append(dates, engine.LocalDateOf(t, loc))
			continue
		}
		if t, err := time.ParseInLocation("20060102T150405", raw, loc); err == nil {
			dates = append(dates, engine.LocalDateOf(t, loc))
			continue
		}
		if t, err := time.Parse("20060102", raw); err == nil {
			dates = append(dates, engine.LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()})
		}
	}

	return dates
}

// ParseRRule parses an RRULE property value such as
// "FREQ=MONTHLY;BYDAY=2WE" into the rule model.
func ParseRRule(value string) (rule.Rule, error) {
	option, err := rrule.StrToROption(value)
	if err != nil {
		return rule.Rule{}, &rule.Error{Type: rule.ErrInvalidRule, Message: fmt.Sprintf("failed to parse RRULE %q", value), Err: err}
	}

	r := rule.Rule{
		Interval:   option.Interval,
		Count:      option.Count,
		ByMonthDay: option.Bymonthday,
		BySetPos:   option.Bysetpos,
		ByMonth:    option.Bymonth,
	}

	switch option.Freq {
	case rrule.YEARLY:
		r.Frequency = rule.Yearly
	case rrule.MONTHLY:
		r.Frequency = rule.Monthly
	case rrule.WEEKLY:
		r.Frequency = rule.Weekly
	case rrule.DAILY:
		r.Frequency = rule.Daily
	case rrule.HOURLY:
		r.Frequency = rule.Hourly
	case rrule.MINUTELY:
		r.Frequency = rule.Minutely
	case rrule.SECONDLY:
		r.Frequency = rule.Secondly
	}

	if !option.Until.IsZero() {
		r.Until = mo.Some(option.Until)
	}

	for _, wd := range option.Byweekday {
		spec := rule.WeekdaySpec{Day: time.Weekday((wd.Day() + 1) % 7)}
		if wd.N() != 0 {
			spec.Position = mo.Some(wd.N())
		}
		r.ByWeekday = append(r.ByWeekday, spec)
	}

	// A WKST other than the Monday default was explicit in the source.
	if option.Wkst.Day() != rrule.MO.Day() {
		r.WeekStart = mo.Some(time.Weekday((option.Wkst.Day() + 1) % 7))
	}

	return r, nil
}

// RRuleValue serializes a rule as an RRULE property value. Positions
// travel folded into BYDAY entries ("2WE"), matching the wire encoding
// the rule model parses.
func RRuleValue(r rule.Rule) string {
	parts := []string{"FREQ=" + r.Frequency.String()}

	if r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	if r.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	}
	if until, ok := r.Until.Get(); ok {
		parts = append(parts, "UNTIL="+until.UTC().Format("20060102T150405Z"))
	}
	if len(r.ByWeekday) > 0 {
		codes := make([]string, 0, len(r.ByWeekday))
		for _, spec := range r.ByWeekday {
			codes = append(codes, spec.String())
		}
		parts = append(parts, "BYDAY="+strings.Join(codes, ","))
	}
	if len(r.ByMonthDay) > 0 {
		parts = append(parts, "BYMONTHDAY="+joinInts(r.ByMonthDay))
	}
	if len(r.BySetPos) > 0 {
		parts = append(parts, "BYSETPOS="+joinInts(r.BySetPos))
	}
	if len(r.ByMonth) > 0 {
		parts = append(parts, "BYMONTH="+joinInts(r.ByMonth))
	}
	if wkst, ok := r.WeekStart.Get(); ok {
		parts = append(parts, "WKST="+rule.WeekdayCode(wkst))
	}

	return strings.Join(parts, ";")
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

// PreviewCalendar renders expanded occurrences as a calendar of plain
// events so they can be inspected in any calendar client. Each event is
// just summary plus start/end; building full schedulable records is the
// caller's business.
func PreviewCalendar(summary string, occurrences []time.Time, duration time.Duration) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//librecur//Occurrence Preview//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, occ := range occurrences {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uuid.New().String())
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now())
		event.Props.SetDateTime(ical.PropDateTimeStart, occ)
		event.Props.SetDateTime(ical.PropDateTimeEnd, occ.Add(duration))
		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}
