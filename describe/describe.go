// Package describe renders a recurrence rule and its anchor as a
// natural-language sentence, consistent with the occurrences the engine
// actually produces.
package describe

import (
	"fmt"
	"strings"
	"time"

	"github.com/cyp0633/librecur/engine"
	"github.com/cyp0633/librecur/rule"
)

// Pattern describes the rule as a sentence: "every week on Monday",
// "every month on the 2nd Wednesday", "every year in June on the last
// Friday until July 31, 2026".
//
// The weekdays named here are exactly the rule's selected weekdays (or
// the anchor's weekday for a weekly rule without a selection) — the same
// inputs that drive expansion, never a weekday re-derived from a raw UTC
// instant. Positional monthly/yearly patterns always name the position;
// generic library text generation is known to drop it.
func Pattern(anchor engine.Anchor, r rule.Rule) string {
	if r.Validate() != nil {
		return "custom recurrence pattern"
	}

	var b strings.Builder
	b.WriteString("every ")
	b.WriteString(intervalPhrase(r))

	switch r.Frequency {
	case rule.Daily:
		if len(r.ByWeekday) > 0 {
			b.WriteString(" on ")
			b.WriteString(joinAnd(weekdayNames(r.ByWeekday)))
		}
	case rule.Weekly:
		b.WriteString(" on ")
		if len(r.ByWeekday) > 0 {
			b.WriteString(joinAnd(weekdayNames(r.ByWeekday)))
		} else {
			b.WriteString(anchor.Weekday().String())
		}
	case rule.Monthly:
		b.WriteString(dayOfPeriodPhrase(r))
	case rule.Yearly:
		if len(r.ByMonth) > 0 {
			b.WriteString(" in ")
			b.WriteString(joinAnd(monthNames(r.ByMonth)))
		}
		b.WriteString(dayOfPeriodPhrase(r))
	}

	b.WriteString(terminatorPhrase(anchor, r))
	return b.String()
}

func intervalPhrase(r rule.Rule) string {
	unit := frequencyUnits[r.Frequency]
	if n := r.EffectiveInterval(); n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return unit
}

var frequencyUnits = map[rule.Frequency]string{
	rule.Secondly: "second",
	rule.Minutely: "minute",
	rule.Hourly:   "hour",
	rule.Daily:    "day",
	rule.Weekly:   "week",
	rule.Monthly:  "month",
	rule.Yearly:   "year",
}

// dayOfPeriodPhrase renders the day selector of a monthly or yearly rule:
// " on the 2nd Wednesday", " on the 15th", or nothing when the rule just
// follows its anchor day.
func dayOfPeriodPhrase(r rule.Rule) string {
	if len(r.ByWeekday) > 0 {
		return " on the " + joinAnd(positionalPhrases(r))
	}
	if len(r.ByMonthDay) > 0 {
		phrases := make([]string, 0, len(r.ByMonthDay))
		for _, d := range r.ByMonthDay {
			phrases = append(phrases, monthDayPhrase(d))
		}
		return " on the " + joinAnd(phrases)
	}
	return ""
}

// positionalPhrases pairs each selected weekday with its position: a
// position folded into the WeekdaySpec wins, otherwise each bysetpos
// entry applies to the weekday.
func positionalPhrases(r rule.Rule) []string {
	phrases := make([]string, 0, len(r.ByWeekday))
	for _, spec := range r.ByWeekday {
		name := spec.Day.String()
		if n, ok := spec.Position.Get(); ok {
			phrases = append(phrases, ordinal(n)+" "+name)
			continue
		}
		if len(r.BySetPos) > 0 {
			for _, p := range r.BySetPos {
				phrases = append(phrases, ordinal(p)+" "+name)
			}
			continue
		}
		phrases = append(phrases, name)
	}
	return phrases
}

func monthDayPhrase(d int) string {
	if d == -1 {
		return "last day"
	}
	if d < 0 {
		return ordinalNumber(-d) + " to last day"
	}
	return ordinalNumber(d)
}

func ordinal(n int) string {
	if n == -1 {
		return "last"
	}
	if n < 0 {
		return ordinalNumber(-n) + " to last"
	}
	return ordinalNumber(n)
}

func ordinalNumber(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func terminatorPhrase(anchor engine.Anchor, r rule.Rule) string {
	if r.Count == 1 {
		return " once"
	}
	if r.Count > 1 {
		return fmt.Sprintf(" for %d times", r.Count)
	}
	if until, ok := r.Until.Get(); ok {
		return " until " + until.In(anchor.Location).Format("January 2, 2006")
	}
	return ""
}

func weekdayNames(specs []rule.WeekdaySpec) []string {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Day.String())
	}
	return names
}

func monthNames(months []int) []string {
	names := make([]string, 0, len(months))
	for _, m := range months {
		names = append(names, time.Month(m).String())
	}
	return names
}

// joinAnd joins a list as "a", "a and b" or "a, b and c".
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
