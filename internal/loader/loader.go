package loader

import (
	"fmt"
	"time"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
	"EODFeed/internal/resample"
	applogger "EODFeed/pkg/logger"
)

// DefaultPeriod is the lookback used when a request does not specify one.
const DefaultPeriod = 160

// Kind selects a bar source implementation. The set is closed and known at
// compile time; configuration picks a tag, never a type name.
type Kind string

const (
	KindEODFile    Kind = "eodfile"
	KindClickHouse Kind = "clickhouse"
)

// ParseKind converts a raw config value into a loader kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindEODFile, KindClickHouse:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("loader must be %q or %q, got %q", KindEODFile, KindClickHouse, s)
	}
}

// alignEnd snaps a cutoff forward to the end of its weekly or monthly
// period, so a mid-week or mid-month end date still bounds the full period
// it belongs to. Other timeframes pass through.
func alignEnd(tf domrepo.Timeframe, end time.Time) time.Time {
	if end.IsZero() {
		return end
	}
	switch tf {
	case domrepo.TFWeekly:
		return resample.EndOfWeek(end)
	case domrepo.TFMonthly:
		return resample.EndOfMonth(end)
	}
	return end
}

// finish applies the aggregation step shared by every source: native-target
// requests pass through untouched, everything else goes through the OHLC
// aggregator with its failure and emptiness states mapped to warnings.
func finish(p domrepo.LoadParams, pol domrepo.Policy, bars []models.Bar) models.LoadResult {
	if pol.Group == domrepo.PeriodNone {
		return models.WithData(p.Symbol, bars)
	}
	agg, err := resample.Aggregate(bars, pol.Group)
	if err != nil {
		return models.NoData(p.Symbol,
			fmt.Sprintf("error resampling %s to %s: %v", p.Symbol, p.Timeframe, err))
	}
	if len(agg) == 0 {
		return models.NoData(p.Symbol,
			fmt.Sprintf("no data for %s after resampling to %s", p.Symbol, p.Timeframe))
	}
	return models.WithData(p.Symbol, agg)
}

// observe logs and meters one finished load. Both are optional so the engine
// stays usable from plain tests.
func observe(l *applogger.Logger, m domrepo.Metrics, p domrepo.LoadParams, res models.LoadResult, start time.Time) {
	if l != nil && !res.HasData() {
		l.Warn("symbol load failed",
			applogger.String("symbol", p.Symbol),
			applogger.String("tf", string(p.Timeframe)),
			applogger.Strings("warnings", res.Warnings),
		)
	}
	if m == nil {
		return
	}
	status := "ok"
	if !res.HasData() {
		status = "no_data"
	}
	m.RecordLoad(string(p.Timeframe), status)
	m.RecordRowsRead(len(res.Bars))
	m.RecordLatency("load", time.Since(start).Seconds())
}
