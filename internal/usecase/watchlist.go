package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"EODFeed/internal/domain/models"
	domrepo "EODFeed/internal/domain/repository"
	pkgcache "EODFeed/pkg/cache"
	applogger "EODFeed/pkg/logger"
)

// Watchlist fans a batch of symbol loads across a bounded worker pool. Every
// symbol produces exactly one result; a failed symbol never blocks or
// invalidates the rest of the batch.
type Watchlist struct {
	source  domrepo.BarSource
	cache   pkgcache.Service // optional
	ttl     time.Duration
	workers int
	l       *applogger.Logger
	m       domrepo.Metrics
}

func NewWatchlist(source domrepo.BarSource, cache pkgcache.Service, ttl time.Duration, workers int, l *applogger.Logger, m domrepo.Metrics) *Watchlist {
	if workers <= 0 {
		workers = 4
	}
	return &Watchlist{source: source, cache: cache, ttl: ttl, workers: workers, l: l, m: m}
}

// BatchParams is the per-request load template applied to every symbol.
type BatchParams struct {
	Timeframe domrepo.Timeframe
	EndDate   time.Time
	Period    int
}

// LoadOne loads a single symbol through the cache. Only populated results
// are cached so a symbol fixed on disk becomes visible on the next request.
func (w *Watchlist) LoadOne(ctx context.Context, symbol string, p BatchParams) models.LoadResult {
	key := w.cacheKey(symbol, p)
	if w.cache != nil {
		var cached models.LoadResult
		if err := w.cache.Get(ctx, key, &cached); err == nil && cached.HasData() {
			if w.m != nil {
				w.m.RecordLoad(string(p.Timeframe), "cache_hit")
			}
			return cached
		}
	}

	res := w.source.Get(ctx, domrepo.LoadParams{
		Symbol:    symbol,
		Timeframe: p.Timeframe,
		EndDate:   p.EndDate,
		Period:    p.Period,
	})

	if w.cache != nil && res.HasData() {
		if err := w.cache.Set(ctx, key, res, w.ttl); err != nil && w.l != nil {
			w.l.Warn("cache set failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return res
}

// LoadAll loads every symbol and returns one result per symbol. Consumers
// treat a no-data result as "skip this symbol, surface its warnings".
func (w *Watchlist) LoadAll(ctx context.Context, symbols []string, p BatchParams) map[string]models.LoadResult {
	out := make(map[string]models.LoadResult, len(symbols))
	if len(symbols) == 0 {
		return out
	}

	workers := w.workers
	if workers > len(symbols) {
		workers = len(symbols)
	}

	jobs := make(chan string)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobs {
				res := w.LoadOne(ctx, sym, p)
				mu.Lock()
				out[sym] = res
				mu.Unlock()
			}
		}()
	}
	for _, sym := range symbols {
		jobs <- sym
	}
	close(jobs)
	wg.Wait()
	return out
}

func (w *Watchlist) cacheKey(symbol string, p BatchParams) string {
	end := "latest"
	if !p.EndDate.IsZero() {
		end = p.EndDate.Format("2006-01-02")
	}
	return pkgcache.GenerateKeyWithParams("bars", string(p.Timeframe), end, p.Period, strings.ToUpper(symbol))
}
