package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/cinelist/internal/api/handlers"
	"github.com/amaumene/cinelist/internal/api/middleware"
	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	app    *fiber.App
	addr   string
	logger *logrus.Logger
}

// Deps groups what the routes are served from
type Deps struct {
	DB        handlers.Pinger
	Sessions  handlers.Sessions
	Catalog   handlers.Catalog
	Importer  handlers.Importer
	AccessLog zerolog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{
		addr:   ":" + cfg.ServerPort,
		logger: logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "cinelist",
		DisableStartupMessage: true,
		Immutable:             true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(middleware.Logging(deps.AccessLog))
	s.setupRoutes(cfg, deps)

	return s
}

// App exposes the fiber app for in-process requests
func (s *Server) App() *fiber.App {
	return s.app
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg *config.Config, deps Deps) {
	health := handlers.NewHealthHandler(deps.DB, s.logger)
	s.app.Get("/health", health.Check)

	status := handlers.NewStatusHandler(deps.Sessions, cfg, s.logger)
	s.app.Get("/status", status.Status)

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	sessions := handlers.NewSessionHandler(deps.Sessions, s.logger)
	catalog := handlers.NewCatalogHandler(deps.Catalog, s.logger)
	watchlists := handlers.NewWatchlistHandler(deps.Importer, s.logger)
	sites := handlers.NewSitesHandler(s.logger)
	keywords := handlers.NewKeywordsHandler(s.logger)

	api := s.app.Group("/api")

	// Catalog, no session needed
	api.Get("/catalog/movie/upcoming", catalog.Upcoming)
	api.Get("/catalog/:mediaType/popular", catalog.Popular)
	api.Get("/catalog/:mediaType/top_rated", catalog.TopRated)
	api.Get("/search", catalog.Search)
	api.Get("/details/:mediaType/:id", catalog.Details)

	api.Delete("/session", sessions.SignOut)

	user := api.Group("", sessions.Require)
	user.Get("/suggest", catalog.Suggest)
	user.Get("/details/:mediaType/:id/urls", catalog.SearchURLs)

	user.Get("/watchlists", watchlists.List)
	user.Post("/watchlists", watchlists.Create)
	user.Post("/watchlists/init", watchlists.Initialize)
	user.Get("/watchlists/:id", watchlists.Get)
	user.Patch("/watchlists/:id", watchlists.Rename)
	user.Delete("/watchlists/:id", watchlists.Delete)
	user.Put("/watchlists/:id/preferences", watchlists.SavePreferences)
	user.Post("/watchlists/:id/movies", watchlists.AddMovies)
	user.Delete("/watchlists/:id/movies", watchlists.RemoveMovies)
	user.Delete("/watchlists/:id/movies/:mediaType/:movieId", watchlists.RemoveMovie)
	user.Post("/watchlists/:id/move", watchlists.Move)
	user.Post("/watchlists/:id/import", watchlists.Import)
	user.Get("/membership/:mediaType/:id", watchlists.Membership)

	user.Get("/sites", sites.List)
	user.Post("/sites", sites.Add)
	user.Post("/sites/init", sites.Initialize)
	user.Put("/sites/:id", sites.Update)
	user.Delete("/sites/:id", sites.Delete)

	user.Get("/keywords", keywords.List)
	user.Post("/keywords", keywords.Add)
	user.Delete("/keywords/:keyword", keywords.Delete)
}

// handleError renders errors that escaped the handlers, such as unknown
// routes and recovered panics
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
	}

	notice := models.ErrorNotice("Something went wrong.")
	if code < fiber.StatusInternalServerError {
		notice = models.ErrorNotice(err.Error())
	}
	return c.Status(code).JSON(handlers.Envelope{Notice: notice})
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}
