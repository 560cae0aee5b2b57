package engine

import (
	"testing"
	"time"

	"github.com/cyp0633/librecur/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheTestRule() rule.Rule {
	return rule.Rule{
		Frequency: rule.Weekly,
		ByWeekday: []rule.WeekdaySpec{{Day: time.Monday}},
		TimeZone:  "America/New_York",
	}
}

func TestExpansionCache_HitReturnsSameResult(t *testing.T) {
	cache := NewExpansionCache(DefaultCacheConfig)
	defer cache.Close()

	e := NewEngine()
	start := time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC)

	first, err := cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)
	second, err := cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Stats().TotalEntries)
}

func TestExpansionCache_DistinctInputsDistinctEntries(t *testing.T) {
	cache := NewExpansionCache(DefaultCacheConfig)
	defer cache.Close()

	e := NewEngine()
	start := time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC)

	_, err := cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)
	_, err = cache.Expand(e, start, cacheTestRule(), 7)
	require.NoError(t, err)

	other := cacheTestRule()
	other.Interval = 2
	_, err = cache.Expand(e, start, other, 5)
	require.NoError(t, err)

	assert.Equal(t, 3, cache.Stats().TotalEntries)
}

func TestExpansionCache_AdjacentNumericFieldsDoNotCollide(t *testing.T) {
	// interval 1 / count 12 and interval 11 / count 2 concatenate to the
	// same digit string; the key must keep the fields apart.
	a := rule.Rule{Frequency: rule.Daily, Interval: 1, Count: 12, TimeZone: "UTC"}
	b := rule.Rule{Frequency: rule.Daily, Interval: 11, Count: 2, TimeZone: "UTC"}

	start := time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC)
	assert.NotEqual(t, expansionKey(start, a, 20), expansionKey(start, b, 20))

	cache := NewExpansionCache(DefaultCacheConfig)
	defer cache.Close()

	e := NewEngine()
	fromA, err := cache.Expand(e, start, a, 20)
	require.NoError(t, err)
	fromB, err := cache.Expand(e, start, b, 20)
	require.NoError(t, err)

	assert.Len(t, fromA, 12)
	require.Len(t, fromB, 2)
	assert.Equal(t, start.AddDate(0, 0, 11), fromB[1])
	assert.Equal(t, 2, cache.Stats().TotalEntries)
}

func TestExpansionCache_Expiry(t *testing.T) {
	cache := NewExpansionCache(CacheConfig{
		TTL:             10 * time.Millisecond,
		MaxEntries:      10,
		CleanupInterval: time.Hour, // expiry checked on access
	})
	defer cache.Close()

	e := NewEngine()
	start := time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC)

	_, err := cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	// The expired entry is dropped on the next lookup.
	_, err = cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Stats().TotalEntries)
}

func TestExpansionCache_ErrorsNotCached(t *testing.T) {
	cache := NewExpansionCache(DefaultCacheConfig)
	defer cache.Close()

	e := NewEngine()
	bad := cacheTestRule()
	bad.TimeZone = "Nowhere/Void"

	_, err := cache.Expand(e, time.Now(), bad, 5)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Stats().TotalEntries)
}

func TestExpansionCache_CallerCannotMutateCachedSlice(t *testing.T) {
	cache := NewExpansionCache(DefaultCacheConfig)
	defer cache.Close()

	e := NewEngine()
	start := time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC)

	first, err := cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)
	first[0] = time.Time{}

	second, err := cache.Expand(e, start, cacheTestRule(), 5)
	require.NoError(t, err)
	assert.False(t, second[0].IsZero())
}

func TestExpansionCache_MaxEntriesEviction(t *testing.T) {
	cache := NewExpansionCache(CacheConfig{
		TTL:             time.Hour,
		MaxEntries:      3,
		CleanupInterval: time.Hour,
	})
	defer cache.Close()

	e := NewEngine()
	start := time.Date(2024, 5, 21, 2, 0, 0, 0, time.UTC)

	for count := 1; count <= 6; count++ {
		_, err := cache.Expand(e, start, cacheTestRule(), count)
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, cache.Stats().TotalEntries, 3)
}
