package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
	"EODFeed/internal/reader"
	applogger "EODFeed/pkg/logger"
)

// FileConfig configures the EOD file source. One file per symbol lives under
// Root, named by the lowercased symbol plus Extension.
type FileConfig struct {
	Root       string
	Extension  string             // default ".csv"
	Native     domrepo.Timeframe  // storage granularity, default daily
	DateColumn string             // default "Date"
	DateFormat string             // Go layout, default "2006-01-02"
}

// EODFile serves bounded, calendar-aligned bar history from per-symbol CSV
// files. Daily and weekly requests read only a budgeted tail of the file;
// monthly and quarterly requests take the full-file slow path, acceptable
// because those requests are infrequent and files are finite.
type EODFile struct {
	cfg      FileConfig
	policies domrepo.PolicyTable
	l        *applogger.Logger
	m        domrepo.Metrics
}

// NewEODFile validates the configuration and precomputes the timeframe
// policy table. An unrecognized native timeframe fails construction.
func NewEODFile(cfg FileConfig, l *applogger.Logger, m domrepo.Metrics) (*EODFile, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("data root is required")
	}
	if cfg.Extension == "" {
		cfg.Extension = ".csv"
	}
	if cfg.Native == "" {
		cfg.Native = domrepo.DefaultTimeframe()
	}
	policies, err := domrepo.NewPolicyTable(cfg.Native)
	if err != nil {
		return nil, err
	}
	return &EODFile{cfg: cfg, policies: policies, l: l, m: m}, nil
}

// Get loads one symbol. Every failure along the way is recovered into a
// warning on a no-data result; nothing escapes as an error or panic, so a
// caller iterating a watchlist always gets one result per symbol.
func (s *EODFile) Get(ctx context.Context, p domrepo.LoadParams) (res models.LoadResult) {
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

	path := filepath.Join(s.cfg.Root, strings.ToLower(p.Symbol)+s.cfg.Extension)
	if _, err := os.Stat(path); err != nil {
		return models.NoData(p.Symbol, fmt.Sprintf("file not found: %s", path))
	}

	opts := reader.Options{
		DateColumn: s.cfg.DateColumn,
		DateFormat: s.cfg.DateFormat,
		ChunkSize:  pol.ChunkSize,
		EndDate:    end,
	}

	if p.Timeframe == domrepo.TFMonthly || p.Timeframe == domrepo.TFQuarterly {
		return s.slowPath(p, pol, path, end, pol.Rows(period), opts)
	}

	bars, err := reader.Tail(path, pol.Rows(period), opts)
	if err != nil {
		if errors.Is(err, reader.ErrMalformed) {
			return models.NoData(p.Symbol,
				fmt.Sprintf("%s: insufficient data or incorrect format near end of file", p.Symbol))
		}
		return models.NoData(p.Symbol, fmt.Sprintf("%s: error loading file - %v", p.Symbol, err))
	}
	if len(bars) == 0 {
		return models.NoData(p.Symbol, fmt.Sprintf("no data loaded for %s, or file was empty", p.Symbol))
	}
	return finish(p, pol, bars)
}

// slowPath reads the whole file, bounds it to the cutoff, keeps the trailing
// native rows and resamples. Used only for monthly and quarterly targets.
func (s *EODFile) slowPath(p domrepo.LoadParams, pol domrepo.Policy, path string, end time.Time, rows int, opts reader.Options) models.LoadResult {
	all, err := reader.ReadAll(path, opts)
	if err != nil {
		return models.NoData(p.Symbol,
			fmt.Sprintf("error processing %s for %s: %v", p.Symbol, p.Timeframe, err))
	}
	if !end.IsZero() {
		cut := len(all)
		for cut > 0 && all[cut-1].Date.After(end) {
			cut--
		}
		all = all[:cut]
	}
	if len(all) > rows {
		all = all[len(all)-rows:]
	}
	if len(all) == 0 {
		return models.NoData(p.Symbol, fmt.Sprintf("no data for %s after date slicing", p.Symbol))
	}
	return finish(p, pol, all)
}

// Close implements BarSource; file handles are per-call so there is nothing
// to release.
func (s *EODFile) Close() error { return nil }
