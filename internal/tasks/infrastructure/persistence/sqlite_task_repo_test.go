package persistence

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTimeLayout(t *testing.T) {
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("lexicographic order matches chronological order", func(t *testing.T) {
		// sub-second offsets where RFC3339Nano's zero-trimming would sort
		// "…00.5Z" before "…00Z"
		times := []time.Time{
			base.Add(1500 * time.Millisecond),
			base,
			base.Add(500 * time.Millisecond),
			base.Add(time.Second),
			base.Add(time.Nanosecond),
			base.Add(-time.Second),
		}

		formatted := make([]string, len(times))
		for i, tm := range times {
			formatted[i] = tm.Format(sqliteTimeLayout)
		}

		sort.Strings(formatted)
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		for i, tm := range times {
			assert.Equal(t, tm.Format(sqliteTimeLayout), formatted[i])
		}
	})

	t.Run("fixed width for any precision", func(t *testing.T) {
		withNanos := base.Add(123 * time.Nanosecond).Format(sqliteTimeLayout)
		whole := base.Format(sqliteTimeLayout)
		assert.Len(t, whole, len(withNanos))
	})

	t.Run("stored values parse back losslessly", func(t *testing.T) {
		original := base.Add(1500 * time.Millisecond)

		parsed, err := time.Parse(time.RFC3339Nano, original.Format(sqliteTimeLayout))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(original))
	})

	t.Run("rows written before the padded layout still parse", func(t *testing.T) {
		trimmed := base.Add(500 * time.Millisecond).Format(time.RFC3339Nano)

		parsed, err := time.Parse(time.RFC3339Nano, trimmed)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(base.Add(500*time.Millisecond)))
	})
}
