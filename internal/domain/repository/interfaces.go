package repository

import (
	"context"
	"time"

	"EODFeed/internal/domain/models"
)

// LoadParams is one immutable load request: which symbol, at which output
// granularity, bounded to how many periods ending at which date.
type LoadParams struct {
	Symbol    string
	Timeframe Timeframe
	EndDate   time.Time // zero means no cutoff
	Period    int       // requested period count; <= 0 uses the default
}

// BarSource loads one symbol's bounded, calendar-aligned bar history.
// Implementations recover every per-symbol failure into warnings on the
// result: Get never returns an error and never panics, so a batch caller
// always receives one result per symbol.
type BarSource interface {
	Get(ctx context.Context, p LoadParams) models.LoadResult
	Close() error
}

// Metrics records load activity.
type Metrics interface {
	RecordLoad(timeframe, status string)
	RecordWarning(kind string)
	RecordRowsRead(n int)
	RecordLatency(op string, seconds float64)
}
