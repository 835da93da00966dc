package resample

import (
	"fmt"
	"time"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
)

// PeriodStart returns the left label for the calendar period containing d:
// the Sunday opening the week, the first of the month, or the first day of
// the quarter.
func PeriodStart(group domrepo.Period, d time.Time) time.Time {
	switch group {
	case domrepo.PeriodWeek:
		return EndOfWeek(d).AddDate(0, 0, -6)
	case domrepo.PeriodMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	case domrepo.PeriodQuarter:
		q := (int(d.Month()) - 1) / 3
		return time.Date(d.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, d.Location())
	}
	return d
}

// Aggregate reduces bars into one bar per calendar period: open from the
// first row, high max, low min, close from the last row, volume summed.
// Output bars are left-labeled with the period start and keep the input's
// ascending order. Periods with no rows are simply never emitted; input
// arriving out of order is an aggregation failure.
func Aggregate(bars []models.Bar, group domrepo.Period) ([]models.Bar, error) {
	if group == domrepo.PeriodNone {
		return bars, nil
	}
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		start := PeriodStart(group, b.Date)
		if n := len(out); n > 0 {
			if cur := &out[n-1]; cur.Date.Equal(start) {
				if b.High > cur.High {
					cur.High = b.High
				}
				if b.Low < cur.Low {
					cur.Low = b.Low
				}
				cur.Close = b.Close
				cur.Volume += b.Volume
				continue
			}
			if start.Before(out[n-1].Date) {
				return nil, fmt.Errorf("bars out of order at %s", b.Date.Format("2006-01-02"))
			}
		}
		nb := b
		nb.Date = start
		out = append(out, nb)
	}
	return out, nil
}
