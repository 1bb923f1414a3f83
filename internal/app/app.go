package app

import (
	"context"
	"fmt"

	"github.com/amaumene/cinelist/internal/api"
	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/scheduler"
	"github.com/amaumene/cinelist/internal/services/tmdb"
	"github.com/amaumene/cinelist/internal/tracing"
	"github.com/sirupsen/logrus"
)

// App is the fully wired service
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Tracing   *tracing.Provider
	DB        *models.Database
	Catalog   *tmdb.Client
	Sessions  *controllers.SessionManager
	Importer  *controllers.ImportController
	Scheduler *scheduler.Scheduler
	Server    *api.Server
}

// CLI holds the pieces used by one-shot commands
type CLI struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Tracing  *tracing.Provider
	Catalog  *tmdb.Client
	Sessions *controllers.SessionManager
	Importer *controllers.ImportController
}

// Run starts the scheduler and the HTTP server and blocks until ctx is
// cancelled or the server fails
func (a *App) Run(ctx context.Context) error {
	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer a.Scheduler.Stop()

	a.Logger.WithField("port", a.Config.ServerPort).Info("cinelist is running")
	if err := a.Server.Start(ctx); err != nil {
		return err
	}

	a.Logger.Info("cinelist stopped")
	return nil
}
