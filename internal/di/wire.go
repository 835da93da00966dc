//go:build wireinject
// +build wireinject

package di

import (
	"EODFeed/pkg/config"
	"EODFeed/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideBarSource,
		ProvideWatchlist,
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
