package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
	pkgch "EODFeed/pkg/clickhouse"
	applogger "EODFeed/pkg/logger"
)

// ClickHouseConfig configures the ClickHouse-backed source. The table holds
// one row per symbol per native-granularity period with date, open, high,
// low, close and volume columns.
type ClickHouseConfig struct {
	Table  string
	Native domrepo.Timeframe
}

// ClickHouse serves the same bounded, calendar-aligned history as the file
// source, reading the trailing rows from a bars table instead of scanning a
// CSV tail. The database does the date bounding, so every timeframe takes
// the same path here.
type ClickHouse struct {
	client   *pkgch.Client
	table    string
	policies domrepo.PolicyTable
	l        *applogger.Logger
	m        domrepo.Metrics
}

func NewClickHouse(client *pkgch.Client, cfg ClickHouseConfig, l *applogger.Logger, m domrepo.Metrics) (*ClickHouse, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("clickhouse table is required")
	}
	if cfg.Native == "" {
		cfg.Native = domrepo.DefaultTimeframe()
	}
	policies, err := domrepo.NewPolicyTable(cfg.Native)
	if err != nil {
		return nil, err
	}
	return &ClickHouse{client: client, table: cfg.Table, policies: policies, l: l, m: m}, nil
}

func (s *ClickHouse) Get(ctx context.Context, p domrepo.LoadParams) (res models.LoadResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = models.NoData(p.Symbol, fmt.Sprintf("%s: unexpected failure - %v", p.Symbol, r))
			if s.m != nil {
				s.m.RecordWarning("panic")
			}
		}
		observe(s.l, s.m, p, res, start)
	}()

	pol, err := s.policies.For(p.Timeframe)
	if err != nil {
		return models.NoData(p.Symbol, err.Error())
	}
	period := p.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	end := alignEnd(p.Timeframe, p.EndDate)

	bars, err := s.queryTail(ctx, strings.ToUpper(p.Symbol), end, pol.Rows(period))
	if err != nil {
		return models.NoData(p.Symbol, fmt.Sprintf("%s: error loading bars - %v", p.Symbol, err))
	}
	if len(bars) == 0 {
		return models.NoData(p.Symbol, fmt.Sprintf("no data loaded for %s, or no rows stored", p.Symbol))
	}
	return finish(p, pol, bars)
}

// queryTail fetches the trailing limit rows at-or-before the cutoff,
// returned ascending.
func (s *ClickHouse) queryTail(ctx context.Context, symbol string, end time.Time, limit int) ([]models.Bar, error) {
	q := fmt.Sprintf(`
        SELECT date, open, high, low, close, volume
        FROM %s
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `, s.table)
	args := []any{symbol, limit}
	if !end.IsZero() {
		q = fmt.Sprintf(`
        SELECT date, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND date <= ?
        ORDER BY date DESC
        LIMIT ?
    `, s.table)
		args = []any{symbol, end, limit}
	}

	rows, err := s.client.DB().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, limit)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	return tmp, nil
}

func (s *ClickHouse) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
