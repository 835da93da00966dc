package resample

import (
	"testing"
	"time"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
)

// one bar per calendar day in [from, to], Close=100, Volume=10.
func dailyBars(from, to time.Time) []models.Bar {
	var out []models.Bar
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, models.Bar{
			Date: d, Open: 99, High: 101, Low: 98, Close: 100, Volume: 10,
		})
	}
	return out
}

func TestAggregateWeeklyJanuary(t *testing.T) {
	bars := dailyBars(date(2024, time.January, 1), date(2024, time.January, 31))

	got, err := Aggregate(bars, domrepo.PeriodWeek)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	// Jan 2024: Mon 1st..Wed 31st. Sunday-opening weeks give bars of
	// 6, 7, 7, 7 and 4 days.
	wantVolumes := []int64{60, 70, 70, 70, 40}
	if len(got) != len(wantVolumes) {
		t.Fatalf("expected %d weekly bars, got %d", len(wantVolumes), len(got))
	}
	for i, b := range got {
		if b.Volume != wantVolumes[i] {
			t.Fatalf("bar %d volume = %d, want %d", i, b.Volume, wantVolumes[i])
		}
		if b.Close != 100 {
			t.Fatalf("bar %d close = %v, want last close 100", i, b.Close)
		}
		if b.Date.Weekday() != time.Sunday {
			t.Fatalf("bar %d label %v not a period start", i, b.Date)
		}
	}
	// First week of Jan 1 opens on Dec 31 2023 (left label).
	if want := date(2023, time.December, 31); !got[0].Date.Equal(want) {
		t.Fatalf("first label = %v, want %v", got[0].Date, want)
	}
}

func TestAggregateIdempotentOnAggregatedInput(t *testing.T) {
	bars := dailyBars(date(2024, time.January, 1), date(2024, time.February, 29))
	once, err := Aggregate(bars, domrepo.PeriodWeek)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	twice, err := Aggregate(once, domrepo.PeriodWeek)
	if err != nil {
		t.Fatalf("re-aggregate: %v", err)
	}
	if len(twice) != len(once) {
		t.Fatalf("re-aggregation changed length: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if twice[i] != once[i] {
			t.Fatalf("bar %d changed: %+v vs %+v", i, twice[i], once[i])
		}
	}
}

func TestAggregateHighNeverBelowLow(t *testing.T) {
	bars := []models.Bar{
		{Date: date(2024, time.March, 4), Open: 10, High: 12, Low: 9, Close: 11, Volume: 1},
		{Date: date(2024, time.March, 5), Open: 11, High: 15, Low: 10, Close: 14, Volume: 2},
		{Date: date(2024, time.March, 6), Open: 14, High: 14, Low: 7, Close: 8, Volume: 3},
	}
	got, err := Aggregate(bars, domrepo.PeriodWeek)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one weekly bar, got %d", len(got))
	}
	b := got[0]
	if b.High < b.Low {
		t.Fatalf("high %v below low %v", b.High, b.Low)
	}
	if b.Open != 10 || b.High != 15 || b.Low != 7 || b.Close != 8 || b.Volume != 6 {
		t.Fatalf("unexpected reducers: %+v", b)
	}
}

func TestAggregateMonthlyAndQuarterlyLabels(t *testing.T) {
	bars := dailyBars(date(2024, time.January, 1), date(2024, time.April, 30))

	monthly, err := Aggregate(bars, domrepo.PeriodMonth)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(monthly) != 4 {
		t.Fatalf("expected 4 monthly bars, got %d", len(monthly))
	}
	if !monthly[1].Date.Equal(date(2024, time.February, 1)) {
		t.Fatalf("monthly label = %v, want period start", monthly[1].Date)
	}

	quarterly, err := Aggregate(bars, domrepo.PeriodQuarter)
	if err != nil {
		t.Fatalf("quarterly: %v", err)
	}
	if len(quarterly) != 2 {
		t.Fatalf("expected 2 quarterly bars, got %d", len(quarterly))
	}
	if !quarterly[0].Date.Equal(date(2024, time.January, 1)) || !quarterly[1].Date.Equal(date(2024, time.April, 1)) {
		t.Fatalf("quarterly labels = %v, %v", quarterly[0].Date, quarterly[1].Date)
	}
	// Q1 2024 has 91 days.
	if quarterly[0].Volume != 910 {
		t.Fatalf("q1 volume = %d, want 910", quarterly[0].Volume)
	}
}

func TestAggregateOutOfOrderFails(t *testing.T) {
	bars := []models.Bar{
		{Date: date(2024, time.March, 4), Close: 1},
		{Date: date(2024, time.February, 1), Close: 2},
	}
	if _, err := Aggregate(bars, domrepo.PeriodMonth); err == nil {
		t.Fatalf("expected error on out-of-order input")
	}
}

func TestAggregateNoneIsPassThrough(t *testing.T) {
	bars := dailyBars(date(2024, time.May, 1), date(2024, time.May, 3))
	got, err := Aggregate(bars, domrepo.PeriodNone)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("pass-through changed length: %d", len(got))
	}
}
