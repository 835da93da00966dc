package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "EODFeed/internal/domain/repository"
	"EODFeed/pkg/config"
	xhttp "EODFeed/pkg/http"
	applogger "EODFeed/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	source     domrepo.BarSource
	handler    xhttp.Handler
	httpServer *xhttp.Server
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, source domrepo.BarSource, handler xhttp.Handler, l *applogger.Logger) *App {
	return &App{
		cfg:     cfg,
		source:  source,
		handler: handler,
		l:       l,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler, a.l,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled),
		xhttp.WithRateLimit(a.cfg.Server.RateLimitRPS),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.source != nil {
		if err := a.source.Close(); err != nil {
			a.l.Warn("bar source close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
