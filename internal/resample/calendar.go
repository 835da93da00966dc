package resample

import "time"

// Trading weeks close on Saturday regardless of the stored granularity.
const weekEnd = time.Saturday

// EndOfWeek returns d if it already falls on the week-ending Saturday,
// otherwise the next Saturday. The search only wraps forward: a Sunday
// advances six days to the Saturday closing its own week, never backward.
func EndOfWeek(d time.Time) time.Time {
	days := (int(weekEnd) - int(d.Weekday()) + 7) % 7
	if days == 0 {
		return d
	}
	return d.AddDate(0, 0, days)
}

// EndOfMonth returns the last calendar day of d's month, via the first day
// of the following month minus one day. AddDate carries December into
// January of the next year.
func EndOfMonth(d time.Time) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return first.AddDate(0, 1, -1)
}
