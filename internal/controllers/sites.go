package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/utils"
	"github.com/sirupsen/logrus"
)

// DefaultSearchSites are inserted on first-time setup
var DefaultSearchSites = []models.SearchSite{
	{Name: "1337x", SearchURL: "https://1337x.to/search/query/1/"},
	{Name: "The Pirate Bay", SearchURL: "https://thepiratebay.org/search.php?q=query"},
	{Name: "EZTV", SearchURL: "https://eztv.re/search/query"},
	{Name: "YTS", SearchURL: "https://yts.mx/browse-movies/query"},
	{Name: "TorrentGalaxy", SearchURL: "https://torrentgalaxy.to/torrents.php?search=query"},
	{Name: "LimeTorrents", SearchURL: "https://www.limetorrents.info/search/all/query/"},
}

// SitesController manages one user's search-site templates
type SitesController struct {
	userID string
	store  SiteStore
	logger *logrus.Logger

	mu          sync.RWMutex
	sites       []models.SearchSite
	initialized bool
}

// NewSitesController creates a sites controller for one user
func NewSitesController(userID string, store SiteStore, logger *logrus.Logger) *SitesController {
	return &SitesController{
		userID: userID,
		store:  store,
		logger: logger,
		sites:  []models.SearchSite{},
	}
}

// ValidateTemplate checks that a search URL carries the placeholder
func ValidateTemplate(searchURL string) error {
	if !strings.Contains(searchURL, utils.Placeholder) {
		return models.ErrInvalidTemplate
	}
	return nil
}

// Refresh refetches the user's sites
func (c *SitesController) Refresh(ctx context.Context) (*models.Notice, error) {
	sites, err := c.store.ListSites(ctx, c.userID)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", c.userID).Error("Failed to fetch search sites")
		return models.ErrorNotice("Could not fetch your saved sites."), fmt.Errorf("failed to fetch sites: %w", err)
	}

	c.mu.Lock()
	c.sites = sites
	c.initialized = true
	c.mu.Unlock()
	return nil, nil
}

// Initialize inserts the default sites for a user who has none
func (c *SitesController) Initialize(ctx context.Context) (*models.Notice, error) {
	if len(c.List()) > 0 {
		return nil, nil
	}

	if _, err := c.store.CreateSites(ctx, c.userID, DefaultSearchSites); err != nil {
		c.logger.WithError(err).WithField("user_id", c.userID).Error("Failed to create default sites")
		return models.ErrorNotice("Could not create default sites."), fmt.Errorf("failed to create default sites: %w", err)
	}

	if notice, err := c.Refresh(ctx); err != nil {
		return notice, err
	}
	return models.InfoNotice("Success", "Your default torrent sites have been added."), nil
}

// Add stores a new site after validating its template
func (c *SitesController) Add(ctx context.Context, name, searchURL string) (models.SearchSite, *models.Notice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.SearchSite{}, models.ErrorNotice("Site name cannot be empty."), fmt.Errorf("%w: empty site name", models.ErrInvalidInput)
	}
	if err := ValidateTemplate(searchURL); err != nil {
		return models.SearchSite{}, invalidTemplateNotice(), err
	}

	created, err := c.store.CreateSites(ctx, c.userID, []models.SearchSite{{Name: name, SearchURL: searchURL}})
	if err != nil {
		c.logger.WithError(err).WithField("user_id", c.userID).Error("Failed to add site")
		return models.SearchSite{}, models.ErrorNotice("Could not add site."), fmt.Errorf("failed to add site: %w", err)
	}
	site := created[0]

	c.mu.Lock()
	c.sites = append(c.sites, site)
	c.mu.Unlock()

	return site, models.InfoNotice("Site Added", fmt.Sprintf("%q has been added.", name)), nil
}

// Update changes the name and template of a site
func (c *SitesController) Update(ctx context.Context, id, name, searchURL string) (*models.Notice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ErrorNotice("Site name cannot be empty."), fmt.Errorf("%w: empty site name", models.ErrInvalidInput)
	}
	if err := ValidateTemplate(searchURL); err != nil {
		return invalidTemplateNotice(), err
	}

	site := models.SearchSite{ID: id, Name: name, SearchURL: searchURL}
	if err := c.store.UpdateSite(ctx, c.userID, site); err != nil {
		if models.IsNotFound(err) {
			return models.ErrorNotice("Site not found."), fmt.Errorf("site %s: %w", id, models.ErrNotFound)
		}
		c.logger.WithError(err).WithField("site_id", id).Error("Failed to update site")
		return models.ErrorNotice("Could not update site."), fmt.Errorf("failed to update site: %w", err)
	}

	c.mu.Lock()
	for i := range c.sites {
		if c.sites[i].ID == id {
			c.sites[i] = site
		}
	}
	c.mu.Unlock()

	return models.InfoNotice("Site Updated", fmt.Sprintf("%q has been updated.", name)), nil
}

// Delete removes a site
func (c *SitesController) Delete(ctx context.Context, id string) (*models.Notice, error) {
	site, ok := c.Get(id)
	if !ok {
		return models.ErrorNotice("Site not found."), fmt.Errorf("site %s: %w", id, models.ErrNotFound)
	}

	if err := c.store.DeleteSite(ctx, c.userID, id); err != nil {
		c.logger.WithError(err).WithField("site_id", id).Error("Failed to delete site")
		return models.ErrorNotice("Could not delete site."), fmt.Errorf("failed to delete site: %w", err)
	}

	c.mu.Lock()
	kept := make([]models.SearchSite, 0, len(c.sites))
	for _, s := range c.sites {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	c.sites = kept
	c.mu.Unlock()

	return models.InfoNotice("Site Deleted", fmt.Sprintf("%q has been deleted.", site.Name)), nil
}

// Get returns one site
func (c *SitesController) Get(id string) (models.SearchSite, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sites {
		if s.ID == id {
			return s, true
		}
	}
	return models.SearchSite{}, false
}

// List returns the sites in creation order
func (c *SitesController) List() []models.SearchSite {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sites := make([]models.SearchSite, len(c.sites))
	copy(sites, c.sites)
	return sites
}

// Select returns the sites with the given ids, or all sites when ids is empty
func (c *SitesController) Select(ids []string) []models.SearchSite {
	all := c.List()
	if len(ids) == 0 {
		return all
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	selected := make([]models.SearchSite, 0, len(ids))
	for _, s := range all {
		if want[s.ID] {
			selected = append(selected, s)
		}
	}
	return selected
}

func invalidTemplateNotice() *models.Notice {
	return &models.Notice{
		Level:   models.NoticeError,
		Title:   "Invalid URL Format",
		Message: "The Search URL must contain `query` as a placeholder.",
	}
}
