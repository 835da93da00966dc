package di

import (
	"fmt"

	"EODFeed/internal/domain/repository"
	"EODFeed/internal/handler/api"
	"EODFeed/internal/loader"
	"EODFeed/internal/usecase"
	pkgcache "EODFeed/pkg/cache"
	pkgch "EODFeed/pkg/clickhouse"
	"EODFeed/pkg/config"
	xhttp "EODFeed/pkg/http"
	applogger "EODFeed/pkg/logger"
	"EODFeed/pkg/metrics"
	"EODFeed/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lcfg := &applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if lcfg.Level == "" {
		lcfg.Level = "info"
	}
	if lcfg.Format == "" {
		lcfg.Format = "json"
	}
	if lcfg.Output == "" {
		lcfg.Output = "stdout"
	}
	return applogger.New(lcfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the result cache, or nil when caching is disabled.
func ProvideCache(cfg *config.Config) (pkgcache.Service, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	if cfg.Cache.Redis.Enabled {
		redisCache, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		layered := pkgcache.NewLayeredCache(redisCache)
		return layered, func() { _ = layered.Close() }, nil
	}

	mem := pkgcache.NewMemoryCache()
	return mem, func() { _ = mem.Close() }, nil
}

// ProvideBarSource creates the configured bar source.
func ProvideBarSource(cfg *config.Config, l *applogger.Logger, m repository.Metrics) (repository.BarSource, func(), error) {
	kind, err := loader.ParseKind(cfg.Data.Loader)
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case loader.KindEODFile:
		src, err := loader.NewEODFile(loader.FileConfig{
			Root:       cfg.Data.Root,
			Extension:  cfg.Data.Extension,
			Native:     repository.Timeframe(cfg.Data.NativeTimeframe),
			DateColumn: cfg.Data.DateColumn,
			DateFormat: cfg.Data.DateFormat,
		}, l, m)
		if err != nil {
			return nil, nil, fmt.Errorf("eod file source: %w", err)
		}
		return src, func() { _ = src.Close() }, nil

	case loader.KindClickHouse:
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}
		src, err := loader.NewClickHouse(client, loader.ClickHouseConfig{
			Table:  cfg.ClickHouse.Table,
			Native: repository.Timeframe(cfg.Data.NativeTimeframe),
		}, l, m)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("clickhouse source: %w", err)
		}
		return src, func() { _ = src.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unsupported loader: %s", cfg.Data.Loader)
}

// ProvideWatchlist creates the batch load use case.
func ProvideWatchlist(
	source repository.BarSource,
	cache pkgcache.Service,
	cfg *config.Config,
	l *applogger.Logger,
	m repository.Metrics,
) *usecase.Watchlist {
	return usecase.NewWatchlist(source, cache, cfg.Cache.TTL, cfg.Batch.Workers, l, m)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(watchlist *usecase.Watchlist, l *applogger.Logger) xhttp.Handler {
	return api.NewBarsEchoHandler(watchlist, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	source repository.BarSource,
	handler xhttp.Handler,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, source, handler, l)
}
