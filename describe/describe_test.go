package describe

import (
	"strings"
	"testing"
	"time"

	"github.com/cyp0633/librecur/engine"
	"github.com/cyp0633/librecur/rule"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nyAnchor(t *testing.T, instant time.Time) engine.Anchor {
	t.Helper()
	anchor, err := engine.ResolveAnchor(instant, "America/New_York")
	require.NoError(t, err)
	return anchor
}

func TestPattern(t *testing.T) {
	// Monday 2024-05-20 22:00 New York.
	anchor := nyAnchor(t, time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		rule     rule.Rule
		expected string
	}{
		{
			name:     "daily",
			rule:     rule.Rule{Frequency: rule.Daily},
			expected: "every day",
		},
		{
			name:     "every other day",
			rule:     rule.Rule{Frequency: rule.Daily, Interval: 2},
			expected: "every 2 days",
		},
		{
			name:     "weekly on one day",
			rule:     rule.Rule{Frequency: rule.Weekly, ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}}},
			expected: "every week on Monday",
		},
		{
			name: "biweekly on two days",
			rule: rule.Rule{Frequency: rule.Weekly, Interval: 2,
				ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}, {Day: time.Wednesday}}},
			expected: "every 2 weeks on Monday and Wednesday",
		},
		{
			name: "weekly on three days",
			rule: rule.Rule{Frequency: rule.Weekly,
				ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}, {Day: time.Wednesday}, {Day: time.Friday}}},
			expected: "every week on Monday, Wednesday and Friday",
		},
		{
			name:     "monthly second wednesday via setpos",
			rule:     rule.Rule{Frequency: rule.Monthly, ByWeekday: []rule.WeekdaySpec{{Day: time.Wednesday}}, BySetPos: []int{2}},
			expected: "every month on the 2nd Wednesday",
		},
		{
			name:     "monthly second wednesday via position",
			rule:     rule.Rule{Frequency: rule.Monthly, ByWeekday: []rule.WeekdaySpec{{Day: time.Wednesday, Position: mo.Some(2)}}},
			expected: "every month on the 2nd Wednesday",
		},
		{
			name:     "monthly last thursday",
			rule:     rule.Rule{Frequency: rule.Monthly, ByWeekday: []rule.WeekdaySpec{{Day: time.Thursday, Position: mo.Some(-1)}}},
			expected: "every month on the last Thursday",
		},
		{
			name:     "monthly second to last friday",
			rule:     rule.Rule{Frequency: rule.Monthly, ByWeekday: []rule.WeekdaySpec{{Day: time.Friday, Position: mo.Some(-2)}}},
			expected: "every month on the 2nd to last Friday",
		},
		{
			name:     "monthly by day of month",
			rule:     rule.Rule{Frequency: rule.Monthly, ByMonthDay: []int{15}},
			expected: "every month on the 15th",
		},
		{
			name:     "monthly last day",
			rule:     rule.Rule{Frequency: rule.Monthly, ByMonthDay: []int{-1}},
			expected: "every month on the last day",
		},
		{
			name:     "monthly first and fifteenth",
			rule:     rule.Rule{Frequency: rule.Monthly, ByMonthDay: []int{1, 15}},
			expected: "every month on the 1st and 15th",
		},
		{
			name: "yearly in june on second wednesday",
			rule: rule.Rule{Frequency: rule.Yearly, ByMonth: []int{6},
				ByWeekday: []rule.WeekdaySpec{{Day: time.Wednesday, Position: mo.Some(2)}}},
			expected: "every year in June on the 2nd Wednesday",
		},
		{
			name:     "count terminator",
			rule:     rule.Rule{Frequency: rule.Weekly, Count: 10, ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}}},
			expected: "every week on Monday for 10 times",
		},
		{
			name:     "count of one",
			rule:     rule.Rule{Frequency: rule.Daily, Count: 1},
			expected: "every day once",
		},
		{
			name: "until terminator",
			rule: rule.Rule{Frequency: rule.Weekly, ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}},
				Until: mo.Some(time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC))},
			expected: "every week on Monday until July 31, 2025",
		},
		{
			name:     "hourly",
			rule:     rule.Rule{Frequency: rule.Hourly},
			expected: "every hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pattern(anchor, tt.rule))
		})
	}
}

func TestPattern_WeeklyDefaultsToAnchorWeekday(t *testing.T) {
	// 2025-05-20 02:00 UTC is Monday 22:00 in New York; the description
	// must say Monday, never the UTC-derived Tuesday.
	anchor := nyAnchor(t, time.Date(2025, 5, 20, 2, 0, 0, 0, time.UTC))

	got := Pattern(anchor, rule.Rule{Frequency: rule.Weekly})
	assert.Equal(t, "every week on Monday", got)
	assert.NotContains(t, got, "Tuesday")
}

func TestPattern_InvalidRule(t *testing.T) {
	anchor := nyAnchor(t, time.Now())
	assert.Equal(t, "custom recurrence pattern", Pattern(anchor, rule.Rule{}))
}

// The weekdays a description names must be exactly the rule's selected
// days, matching what the generator produces.
func TestPattern_AgreesWithSelection(t *testing.T) {
	anchor := nyAnchor(t, time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC))

	r := rule.Rule{
		Frequency: rule.Weekly,
		ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}, {Day: time.Thursday}},
	}
	text := Pattern(anchor, r)

	for _, spec := range r.ByWeekday {
		assert.Contains(t, text, spec.Day.String())
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d == time.Monday || d == time.Thursday {
			continue
		}
		assert.False(t, strings.Contains(text, d.String()), "description must not name %s", d)
	}
}
