/*
Package engine computes concrete calendar occurrences from an abstract,
timezone-aware recurrence rule.

# Basic Usage

	r := rule.Rule{
		Frequency: rule.Weekly,
		ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}},
		TimeZone:  "America/New_York",
	}
	e := engine.NewEngine()
	occurrences, err := e.Expand(start, r, 5)

Occurrences come back UTC-normalized and strictly increasing, but all
calendar semantics are local to the rule's timezone: the local weekday of
every occurrence is in the rule's selected weekday set, and the local time
of day always equals the anchor's, even across a DST transition.

# Wall-Clock Anchoring

Expansion never adds fixed offsets to instants. The rule's start instant
is resolved once into wall-clock calendar fields in the rule's timezone
(the Anchor), and every candidate occurrence is built from those fields
and projected forward through the zone. That is what keeps a 2pm meeting
at 2pm local across an offset change.

Late-night events near a UTC day boundary (10pm Monday in New York is
already Tuesday in UTC) are additionally guarded by a post-generation
corrector that repairs any occurrence landing on a non-selected local
weekday.

# Exclusions

Exclusion dates compare by local calendar date, not by instant:

	excl := []engine.LocalDate{{Year: 2025, Month: time.July, Day: 14}}
	occurrences, err := e.ExpandWithExclusions(start, r, 10, excl)

# Caching

The engine holds no state across calls. Callers that re-expand the same
rule often can own an ExpansionCache:

	cache := engine.NewExpansionCache(engine.DefaultCacheConfig)
	defer cache.Close()
	occurrences, err := cache.Expand(e, start, r, 10)
*/
package engine
