package handlers

import (
	"context"

	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Importer resolves pasted titles into a watchlist
type Importer interface {
	Import(ctx context.Context, wl *controllers.WatchlistController, listID, text string) (controllers.ImportResult, error)
}

// WatchlistHandler serves watchlist CRUD, membership and bulk import
type WatchlistHandler struct {
	importer Importer
	logger   *logrus.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(importer Importer, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{importer: importer, logger: logger}
}

type nameRequest struct {
	Name string `json:"name"`
}

type moviesRequest struct {
	Movie  *models.Movie  `json:"movie,omitempty"`
	Movies []models.Movie `json:"movies,omitempty"`
}

type moveRequest struct {
	Destination string         `json:"destination"`
	Movies      []models.Movie `json:"movies"`
}

type importRequest struct {
	Text string `json:"text"`
}

// WatchlistView is a watchlist ordered for display with the settings used
type WatchlistView struct {
	Watchlist   models.Watchlist            `json:"watchlist"`
	Preferences models.WatchlistPreferences `json:"preferences"`
}

// Membership tells which watchlists hold a title
type Membership struct {
	InAny      bool     `json:"in_any"`
	Watchlists []string `json:"watchlists"`
}

func parseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return invalid("malformed request body")
	}
	return nil
}

// List returns every watchlist of the user
func (h *WatchlistHandler) List(c *fiber.Ctx) error {
	return ok(c, session(c).Watchlists.List(), nil)
}

// Create adds an empty watchlist
func (h *WatchlistHandler) Create(c *fiber.Ctx) error {
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	list, notice, err := session(c).Watchlists.Create(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err, notice)
	}
	return respond(c, fiber.StatusCreated, list, notice)
}

// Initialize creates the default watchlist for a first-time user
func (h *WatchlistHandler) Initialize(c *fiber.Ctx) error {
	wl := session(c).Watchlists
	notice, err := wl.Initialize(c.UserContext())
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, wl.List(), notice)
}

// Get returns one watchlist sorted and filtered by the sort and filter
// query values, or by the saved preferences when they are absent
func (h *WatchlistHandler) Get(c *fiber.Ctx) error {
	sortBy := models.SortOption(c.Query("sort"))
	filter := models.FilterOption(c.Query("filter"))
	if err := validateDisplay(sortBy, filter); err != nil {
		return fail(c, err, nil)
	}

	list, prefs, err := session(c).Watchlists.View(c.Params("id"), sortBy, filter)
	if err != nil {
		return fail(c, err, nil)
	}
	return ok(c, WatchlistView{Watchlist: list, Preferences: prefs}, nil)
}

func validateDisplay(sortBy models.SortOption, filter models.FilterOption) error {
	switch sortBy {
	case "", models.SortRecentlyAdded, models.SortName, models.SortReleaseDate:
	default:
		return invalid("unknown sort " + string(sortBy))
	}
	switch filter {
	case "", models.FilterAll, models.FilterMovie, models.FilterTV:
	default:
		return invalid("unknown filter " + string(filter))
	}
	return nil
}

// Rename changes a watchlist's name
func (h *WatchlistHandler) Rename(c *fiber.Ctx) error {
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	wl := session(c).Watchlists
	notice, err := wl.Rename(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return fail(c, err, notice)
	}
	list, _ := wl.Get(c.Params("id"))
	return ok(c, list, notice)
}

// Delete removes a watchlist
func (h *WatchlistHandler) Delete(c *fiber.Ctx) error {
	notice, err := session(c).Watchlists.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, nil, notice)
}

// SavePreferences stores the sort and filter of a watchlist
func (h *WatchlistHandler) SavePreferences(c *fiber.Ctx) error {
	var prefs models.WatchlistPreferences
	if err := parseBody(c, &prefs); err != nil {
		return fail(c, err, nil)
	}
	saved, err := session(c).Watchlists.SavePreferences(c.Params("id"), prefs)
	if err != nil {
		if StatusFor(err) == fiber.StatusInternalServerError {
			h.logger.WithError(err).WithField("watchlist_id", c.Params("id")).Error("Failed to save preferences")
		}
		return fail(c, err, nil)
	}
	return ok(c, saved, nil)
}

// AddMovies adds a single movie or a batch. Titles already present are
// skipped with an info notice.
func (h *WatchlistHandler) AddMovies(c *fiber.Ctx) error {
	var req moviesRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}

	wl := session(c).Watchlists
	id := c.Params("id")

	if req.Movie != nil {
		notice, err := wl.AddMovie(c.UserContext(), id, *req.Movie)
		if err != nil {
			return fail(c, err, notice)
		}
		return ok(c, []models.Movie{*req.Movie}, notice)
	}

	if len(req.Movies) == 0 {
		return fail(c, invalid("no movies given"), nil)
	}
	added, notice, err := wl.AddMovies(c.UserContext(), id, req.Movies)
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, added, notice)
}

// RemoveMovies deletes a batch of titles by id and media type
func (h *WatchlistHandler) RemoveMovies(c *fiber.Ctx) error {
	var req moviesRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	if len(req.Movies) == 0 {
		return fail(c, invalid("no movies given"), nil)
	}
	notice, err := session(c).Watchlists.RemoveMovies(c.UserContext(), c.Params("id"), req.Movies)
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, nil, notice)
}

// RemoveMovie deletes one title
func (h *WatchlistHandler) RemoveMovie(c *fiber.Ctx) error {
	mt, err := mediaTypeParam(c)
	if err != nil {
		return fail(c, err, nil)
	}
	movieID, err := idParam(c, "movieId")
	if err != nil {
		return fail(c, err, nil)
	}
	notice, err := session(c).Watchlists.RemoveMovie(c.UserContext(), c.Params("id"), movieID, mt)
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, nil, notice)
}

// Move transfers titles to the destination watchlist
func (h *WatchlistHandler) Move(c *fiber.Ctx) error {
	var req moveRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}
	if req.Destination == "" || len(req.Movies) == 0 {
		return fail(c, invalid("destination and movies are required"), nil)
	}
	notice, err := session(c).Watchlists.MoveMovies(c.UserContext(), c.Params("id"), req.Destination, req.Movies)
	if err != nil {
		return fail(c, err, notice)
	}
	return ok(c, nil, notice)
}

// Import resolves one title per line and adds the matches
func (h *WatchlistHandler) Import(c *fiber.Ctx) error {
	var req importRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, nil)
	}

	id := c.Params("id")
	result, err := h.importer.Import(c.UserContext(), session(c).Watchlists, id, req.Text)
	if err != nil {
		h.logger.WithError(err).WithField("watchlist_id", id).Warn("Import failed")
		return respond(c, StatusFor(err), result, lastNotice(result.Notices))
	}
	return ok(c, result, lastNotice(result.Notices))
}

func lastNotice(notices []*models.Notice) *models.Notice {
	if len(notices) == 0 {
		return nil
	}
	return notices[len(notices)-1]
}

// Membership reports which watchlists hold a title
func (h *WatchlistHandler) Membership(c *fiber.Ctx) error {
	mt, err := mediaTypeParam(c)
	if err != nil {
		return fail(c, err, nil)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return fail(c, err, nil)
	}
	ids := session(c).Watchlists.WatchlistsContaining(id, mt)
	return ok(c, Membership{InAny: len(ids) > 0, Watchlists: ids}, nil)
}
