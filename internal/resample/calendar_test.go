package resample

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEndOfWeekFallsOnSaturday(t *testing.T) {
	start := date(2024, time.January, 1)
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		got := EndOfWeek(d)
		if got.Weekday() != time.Saturday {
			t.Fatalf("EndOfWeek(%v) = %v, weekday %v", d, got, got.Weekday())
		}
		if got.Before(d) {
			t.Fatalf("EndOfWeek(%v) = %v went backward", d, got)
		}
	}
}

func TestEndOfWeekIdempotent(t *testing.T) {
	start := date(2024, time.June, 1)
	for i := 0; i < 30; i++ {
		d := start.AddDate(0, 0, i)
		once := EndOfWeek(d)
		if twice := EndOfWeek(once); !twice.Equal(once) {
			t.Fatalf("EndOfWeek not idempotent for %v: %v then %v", d, once, twice)
		}
	}
}

func TestEndOfWeekSundayAdvancesSixDays(t *testing.T) {
	sun := date(2024, time.January, 7)
	got := EndOfWeek(sun)
	if want := date(2024, time.January, 13); !got.Equal(want) {
		t.Fatalf("EndOfWeek(sunday) = %v, want %v", got, want)
	}
}

func TestEndOfMonth(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, time.January, 15), date(2024, time.January, 31)},
		{date(2024, time.February, 1), date(2024, time.February, 29)}, // leap year
		{date(2023, time.February, 10), date(2023, time.February, 28)},
		{date(2024, time.April, 30), date(2024, time.April, 30)},
		{date(2024, time.December, 31), date(2024, time.December, 31)},
		{date(2024, time.December, 2), date(2024, time.December, 31)}, // year rollover inside
	}
	for _, c := range cases {
		if got := EndOfMonth(c.in); !got.Equal(c.want) {
			t.Fatalf("EndOfMonth(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
