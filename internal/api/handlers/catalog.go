package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Catalog is the read side of the movie database
type Catalog interface {
	Popular(ctx context.Context, mediaType models.MediaType) ([]models.Movie, error)
	TopRated(ctx context.Context, mediaType models.MediaType) ([]models.Movie, error)
	Upcoming(ctx context.Context) ([]models.Movie, error)
	Search(ctx context.Context, query string) ([]models.Movie, error)
	Details(ctx context.Context, mediaType models.MediaType, id int) (models.Movie, error)
}

// CatalogHandler serves browsing, search, details and search-site URLs
type CatalogHandler struct {
	catalog Catalog
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog Catalog, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// Popular lists popular movies or tv shows
func (h *CatalogHandler) Popular(c *fiber.Ctx) error {
	return h.list(c, "popular", h.catalog.Popular)
}

// TopRated lists top rated movies or tv shows
func (h *CatalogHandler) TopRated(c *fiber.Ctx) error {
	return h.list(c, "top_rated", h.catalog.TopRated)
}

func (h *CatalogHandler) list(c *fiber.Ctx, name string, fetch func(context.Context, models.MediaType) ([]models.Movie, error)) error {
	mt, err := mediaTypeParam(c)
	if err != nil {
		return fail(c, err, nil)
	}
	movies, err := fetch(c.UserContext(), mt)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"list":       name,
			"media_type": mt,
		}).Error("Failed to fetch catalog list")
		return fail(c, err, nil)
	}
	return ok(c, movies, nil)
}

// Upcoming lists upcoming movies
func (h *CatalogHandler) Upcoming(c *fiber.Ctx) error {
	movies, err := h.catalog.Upcoming(c.UserContext())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch upcoming movies")
		return fail(c, err, nil)
	}
	return ok(c, movies, nil)
}

// Search runs a multi search over movies and tv shows
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	movies, err := h.catalog.Search(c.UserContext(), query)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Search failed")
		return fail(c, err, nil)
	}
	return ok(c, movies, nil)
}

// Suggest serves search-as-you-type results. A request overtaken by a
// newer one from the same user gets 204.
func (h *CatalogHandler) Suggest(c *fiber.Ctx) error {
	movies, err := session(c).Suggester.Suggest(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err, nil)
	}
	return ok(c, movies, nil)
}

// DetailsResponse is a title with its review and discussion links
type DetailsResponse struct {
	Movie models.Movie         `json:"movie"`
	Links []utils.ExternalLink `json:"links"`
}

// Details returns one title with credits, videos and recommendations
func (h *CatalogHandler) Details(c *fiber.Ctx) error {
	movie, err := h.details(c)
	if err != nil {
		return fail(c, err, nil)
	}
	return ok(c, DetailsResponse{Movie: movie, Links: utils.ExternalLinks(movie)}, nil)
}

// SearchURLs builds the search-site URLs of a title. The sites query
// selects site ids (all sites when empty); year, season, episode and
// keywords shape the query.
func (h *CatalogHandler) SearchURLs(c *fiber.Ctx) error {
	opts, err := searchOptions(c)
	if err != nil {
		return fail(c, err, nil)
	}

	sess := session(c)
	sites := sess.Sites.List()
	if ids := splitList(c.Query("sites")); len(ids) > 0 {
		sites = sess.Sites.Select(ids)
	}

	movie, err := h.details(c)
	if err != nil {
		return fail(c, err, nil)
	}
	return ok(c, utils.GenerateURLs(sites, movie, opts), nil)
}

func (h *CatalogHandler) details(c *fiber.Ctx) (models.Movie, error) {
	mt, err := mediaTypeParam(c)
	if err != nil {
		return models.Movie{}, err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return models.Movie{}, err
	}

	movie, err := h.catalog.Details(c.UserContext(), mt, id)
	if err != nil && StatusFor(err) != fiber.StatusNotFound {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"media_type": mt,
			"id":         id,
		}).Error("Failed to fetch details")
	}
	return movie, err
}

func searchOptions(c *fiber.Ctx) (utils.SearchOptions, error) {
	opts := utils.SearchOptions{
		IncludeYear: c.QueryBool("year"),
		Keywords:    splitList(c.Query("keywords")),
	}

	if s := c.Query("season"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return opts, invalid("season must be a positive number")
		}
		opts.Season = utils.SeasonToken(n)
	}
	if e := c.Query("episode"); e != "" {
		if opts.Season == "" {
			return opts, invalid("episode requires a season")
		}
		n, err := strconv.Atoi(e)
		if err != nil || n < 1 || n > utils.MaxEpisodeToken {
			return opts, invalid("episode must be between 1 and " + strconv.Itoa(utils.MaxEpisodeToken))
		}
		opts.Episode = utils.EpisodeToken(n)
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
