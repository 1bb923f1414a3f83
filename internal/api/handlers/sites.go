package handlers

import (
	"github.com/amaumene/cinelist/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SitesHandler serves search-site CRUD
type SitesHandler struct {
	logger *logrus.Logger
}

// NewSitesHandler creates a new sites handler
func NewSitesHandler(logger *logrus.Logger) *SitesHandler {
	return &SitesHandler{logger: logger}
}

// List returns the user's search sites
func (h *SitesHandler) List(c *fiber.Ctx) error {
	return ok(c, session(c).Sites.List(), nil)
}

// Initialize installs the default search sites
func (h *SitesHandler) Initialize(c *fiber.Ctx) error {
	sites := session(c).Sites
	notice, err := sites.Initialize(c.UserContext())
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, sites.List(), notice)
}

// Add creates a search site
func (h *SitesHandler) Add(c *fiber.Ctx) error {
	var req models.SearchSite
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	site, notice, err := session(c).Sites.Add(c.UserContext(), req.Name, req.SearchURL)
	if err != nil {
		return fail(c, err, notice)
	}
	return respond(c, fiber.StatusCreated, site, notice)
}

// Update changes a search site's name and template
func (h *SitesHandler) Update(c *fiber.Ctx) error {
	var req models.SearchSite
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	sites := session(c).Sites
	notice, err := sites.Update(c.UserContext(), c.Params("id"), req.Name, req.SearchURL)
	if err != nil {
		return fail(c, err, notice)
	}
	site, _ := sites.Get(c.Params("id"))
	return ok(c, site, notice)
}

// Delete removes a search site
func (h *SitesHandler) Delete(c *fiber.Ctx) error {
	notice, err := session(c).Sites.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, nil, notice)
}
