//go:build wireinject

package app

import (
	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/services/tmdb"
	"github.com/google/wire"
)

var storeSet = wire.NewSet(
	provideLogger,
	provideTracing,
	provideDatabase,
	providePreferences,
	provideCache,
	tmdb.NewClient,
	provideSessions,
	provideImporter,
)

// InitializeApp builds the whole service
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	panic(wire.Build(
		storeSet,
		provideScheduler,
		provideAccessLog,
		provideServer,
		wire.Struct(new(App), "*"),
	))
}

// InitializeCLI builds what the one-shot commands need
func InitializeCLI(cfg *config.Config) (*CLI, func(), error) {
	panic(wire.Build(
		storeSet,
		wire.Struct(new(CLI), "*"),
	))
}
