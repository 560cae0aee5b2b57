package rule

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// DTO is the JSON wire form of a recurrence rule as exchanged with the
// UI and API layers. Weekday entries are bare codes ("MO") or codes with
// a signed position prefix ("2WE", "-1FR"); until is an ISO-8601 instant.
type DTO struct {
	Frequency  string   `json:"frequency"`
	Interval   int      `json:"interval,omitempty"`
	Count      int      `json:"count,omitempty"`
	Until      string   `json:"until,omitempty"`
	ByWeekday  []string `json:"byweekday,omitempty"`
	ByMonthDay []int    `json:"bymonthday,omitempty"`
	BySetPos   []int    `json:"bysetpos,omitempty"`
	ByMonth    []int    `json:"bymonth,omitempty"`
	WeekStart  string   `json:"wkst,omitempty"`
	TimeZone   string   `json:"timeZone,omitempty"`
}

// Rule decodes the DTO into a validated Rule. String-encoded weekdays are
// parsed here, once; nothing downstream re-parses them.
func (d DTO) Rule() (Rule, error) {
	freq, err := ParseFrequency(d.Frequency)
	if err != nil {
		return Rule{}, err
	}

	r := Rule{
		Frequency:  freq,
		Interval:   d.Interval,
		Count:      d.Count,
		ByMonthDay: d.ByMonthDay,
		BySetPos:   d.BySetPos,
		ByMonth:    d.ByMonth,
		TimeZone:   d.TimeZone,
	}

	if d.Until != "" {
		until, err := time.Parse(time.RFC3339, d.Until)
		if err != nil {
			return Rule{}, &Error{Type: ErrInvalidRule, Message: fmt.Sprintf("until %q is not an ISO-8601 instant", d.Until), Err: err}
		}
		r.Until = mo.Some(until)
	}

	for _, code := range d.ByWeekday {
		spec, err := ParseWeekday(code)
		if err != nil {
			return Rule{}, err
		}
		r.ByWeekday = append(r.ByWeekday, spec)
	}

	if d.WeekStart != "" {
		wkst, err := ParseWeekdayCode(d.WeekStart)
		if err != nil {
			return Rule{}, err
		}
		r.WeekStart = mo.Some(wkst)
	}

	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// EncodeDTO converts a Rule back to its wire form.
func EncodeDTO(r Rule) DTO {
	d := DTO{
		Frequency:  r.Frequency.String(),
		Interval:   r.Interval,
		Count:      r.Count,
		ByMonthDay: r.ByMonthDay,
		BySetPos:   r.BySetPos,
		ByMonth:    r.ByMonth,
		TimeZone:   r.TimeZone,
	}
	if until, ok := r.Until.Get(); ok {
		d.Until = until.UTC().Format(time.RFC3339)
	}
	for _, spec := range r.ByWeekday {
		d.ByWeekday = append(d.ByWeekday, spec.String())
	}
	if wkst, ok := r.WeekStart.Get(); ok {
		d.WeekStart = WeekdayCode(wkst)
	}
	return d
}
