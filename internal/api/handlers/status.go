package handlers

import (
	"time"

	"github.com/amaumene/cinelist/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// StatusHandler reports runtime information about the service
type StatusHandler struct {
	sessions Sessions
	cfg      *config.Config
	started  time.Time
	logger   *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(sessions Sessions, cfg *config.Config, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		sessions: sessions,
		cfg:      cfg,
		started:  time.Now(),
		logger:   logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	ActiveSessions    int     `json:"active_sessions"`
	CacheBackend      string  `json:"cache_backend"`
	DatabaseDriver    string  `json:"database_driver"`
	ImportConcurrency int     `json:"import_concurrency"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// Status returns the session count and the configured backends
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		ActiveSessions:    h.sessions.Count(),
		CacheBackend:      h.cfg.CacheBackend,
		DatabaseDriver:    h.cfg.DatabaseDriver,
		ImportConcurrency: h.cfg.ImportConcurrency,
		UptimeSeconds:     time.Since(h.started).Seconds(),
	})
}
