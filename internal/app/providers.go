package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/amaumene/cinelist/internal/api"
	"github.com/amaumene/cinelist/internal/api/middleware"
	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/scheduler"
	"github.com/amaumene/cinelist/internal/services/cache"
	"github.com/amaumene/cinelist/internal/services/tmdb"
	"github.com/amaumene/cinelist/internal/tracing"
	"github.com/amaumene/cinelist/internal/utils"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// Version is reported in traces and by the CLI
var Version = "dev"

// AccessLog is the HTTP access logger, kept apart from the app logger
type AccessLog zerolog.Logger

func provideLogger(cfg *config.Config) *logrus.Logger {
	return utils.NewLogger(cfg.LogLevel, cfg.LogFile)
}

func provideTracing(logger *logrus.Logger) (*tracing.Provider, func()) {
	tp := tracing.Setup("cinelist", Version)
	return tp, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Failed to flush traces")
		}
	}
}

func provideDatabase(cfg *config.Config, logger *logrus.Logger) (*models.Database, func(), error) {
	db, err := models.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.WithField("driver", cfg.DatabaseDriver).Info("Database initialized")
	return db, func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}, nil
}

func providePreferences(cfg *config.Config, logger *logrus.Logger) (*models.PreferencesStore, func(), error) {
	prefs, err := models.NewPreferencesStore(cfg.PreferencesFile)
	if err != nil {
		return nil, nil, err
	}
	return prefs, func() {
		if err := prefs.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close preferences store")
		}
	}, nil
}

func provideCache(cfg *config.Config, logger *logrus.Logger) (cache.Cache, func(), error) {
	c, err := cache.New(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	cleanup := func() {}
	if closer, ok := c.(io.Closer); ok {
		cleanup = func() {
			if err := closer.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close cache")
			}
		}
	}
	return c, cleanup, nil
}

func provideSessions(cfg *config.Config, db *models.Database, prefs *models.PreferencesStore, catalog *tmdb.Client, logger *logrus.Logger) *controllers.SessionManager {
	return controllers.NewSessionManager(db, prefs, catalog, cfg.SessionIdle, logger)
}

func provideImporter(cfg *config.Config, catalog *tmdb.Client, logger *logrus.Logger) *controllers.ImportController {
	return controllers.NewImportController(catalog, cfg.ImportConcurrency, logger)
}

func provideScheduler(catalog *tmdb.Client, sessions *controllers.SessionManager, db *models.Database, logger *logrus.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(catalog, sessions, db, logger)
}

// provideAccessLog opens the access log target: "stdout", a file path
// (rotated), or nothing when unset
func provideAccessLog(cfg *config.Config) (AccessLog, func()) {
	switch cfg.AccessLog {
	case "":
		return AccessLog(middleware.NewAccessLogger(nil)), func() {}
	case "stdout":
		return AccessLog(middleware.NewAccessLogger(os.Stdout)), func() {}
	default:
		f := utils.NewRotatingFile(cfg.AccessLog)
		return AccessLog(middleware.NewAccessLogger(f)), func() { f.Close() }
	}
}

func provideServer(cfg *config.Config, db *models.Database, sessions *controllers.SessionManager, catalog *tmdb.Client, importer *controllers.ImportController, access AccessLog, logger *logrus.Logger) *api.Server {
	return api.NewServer(cfg, api.Deps{
		DB:        db,
		Sessions:  sessions,
		Catalog:   catalog,
		Importer:  importer,
		AccessLog: zerolog.Logger(access),
	}, logger)
}
