package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekOfDay(t *testing.T) {
	tests := []struct {
		name string
		day  int
		want int
	}{
		{"first day of month", 1, 0},
		{"last day of first band", 7, 0},
		{"first day of second band", 8, 1},
		{"middle of month", 15, 2},
		{"last day of fourth band", 28, 3},
		{"day 29 lands in the tail week", 29, 4},
		{"day 31 lands in the tail week", 31, 4},
		{"zero day is clamped to the first week", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekOfDay(tt.day))
		})
	}
}

func TestMonth_Contains(t *testing.T) {
	month := Month{Year: 2025, Month: time.June}

	assert.True(t, month.Contains(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, month.Contains(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, month.Contains(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, month.Contains(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	t.Run("parses a valid ISO date", func(t *testing.T) {
		parsed, ok := ParseDate("2025-06-17")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("reports malformed input without an error", func(t *testing.T) {
		for _, input := range []string{"", "not-a-date", "2025-13-40", "17/06/2025"} {
			_, ok := ParseDate(input)
			assert.False(t, ok, "input %q should not parse", input)
		}
	})
}

func TestMonth_String(t *testing.T) {
	assert.Equal(t, "2025-06", Month{Year: 2025, Month: time.June}.String())
}
