package budget

import (
	"fmt"
	"time"
)

// WeeksPerMonth is the size of the planning grid. Every weekly vector in the
// application has exactly this many slots.
const WeeksPerMonth = 5

// dateLayout is the calendar date format used everywhere in stored records.
const dateLayout = "2006-01-02"

// Month is the year/month anchor all weekly calculations are relative to.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the Month containing the given point in time.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether the given date falls within the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// WeekOfDay maps a day of month to its week slot using fixed banding:
// days 1-7 -> 0, 8-14 -> 1, 15-21 -> 2, 22-28 -> 3, 29 and later -> 4.
// This is deliberately not ISO week numbering: the grid always shows the
// same 4-or-5-week shape regardless of what weekday the month starts on,
// and week 4 covers the 1-3 day tail of longer months.
func WeekOfDay(day int) int {
	if day >= 29 {
		return WeeksPerMonth - 1
	}
	if day < 1 {
		return 0
	}
	return (day - 1) / 7
}

// ParseDate parses an ISO calendar date ("2006-01-02"). Stored dates come
// from free-form user input, so a failed parse is reported through ok rather
// than an error; callers treat an unparseable date as contributing nothing.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a date in the stored ISO form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
