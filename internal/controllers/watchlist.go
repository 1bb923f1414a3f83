package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/amaumene/cinelist/internal/metrics"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultWatchlistName is the list created on first-time setup
const DefaultWatchlistName = "My Watchlist"

// WatchlistController holds one user's watchlists in memory and keeps
// them in step with the store. Every mutation returns a notice for the
// user; on failure the in-memory state is left untouched.
type WatchlistController struct {
	userID string
	store  WatchlistStore
	prefs  PreferenceStore
	logger *logrus.Logger

	// writeMu serializes mutations so a duplicate check and its insert
	// see the same state
	writeMu sync.Mutex

	mu          sync.RWMutex
	lists       []models.Watchlist
	initialized bool
}

// NewWatchlistController creates a watchlist controller for one user
func NewWatchlistController(userID string, store WatchlistStore, prefs PreferenceStore, logger *logrus.Logger) *WatchlistController {
	return &WatchlistController{
		userID: userID,
		store:  store,
		prefs:  prefs,
		logger: logger,
		lists:  []models.Watchlist{},
	}
}

func (c *WatchlistController) log() *logrus.Entry {
	return c.logger.WithField("user_id", c.userID)
}

func observe(op string, err error) {
	metrics.WatchlistOps.WithLabelValues(op, metrics.Result(err)).Inc()
}

// Refresh refetches every watchlist of the user
func (c *WatchlistController) Refresh(ctx context.Context) (*models.Notice, error) {
	lists, err := c.store.ListWatchlists(ctx, c.userID)
	observe("refresh", err)
	if err != nil {
		c.log().WithError(err).Error("Failed to fetch watchlists")
		return models.ErrorNotice("Could not fetch watchlists."), fmt.Errorf("failed to fetch watchlists: %w", err)
	}

	c.mu.Lock()
	c.lists = lists
	c.initialized = true
	c.mu.Unlock()
	return nil, nil
}

// Initialized reports whether the first fetch has completed
func (c *WatchlistController) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Initialize creates the default watchlist for a user who has none
func (c *WatchlistController) Initialize(ctx context.Context) (*models.Notice, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if len(c.List()) > 0 {
		return nil, nil
	}

	_, err := c.store.CreateWatchlist(ctx, c.userID, DefaultWatchlistName)
	observe("initialize", err)
	if err != nil {
		c.log().WithError(err).Error("Failed to create default watchlist")
		return models.ErrorNotice("Could not create a default watchlist."), fmt.Errorf("failed to create default watchlist: %w", err)
	}

	c.refreshAfterWrite(ctx)
	return models.InfoNotice("Success", "Your first watchlist has been created."), nil
}

// Create adds a new empty watchlist
func (c *WatchlistController) Create(ctx context.Context, name string) (models.Watchlist, *models.Notice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Watchlist{}, models.ErrorNotice("Watchlist name cannot be empty."), fmt.Errorf("%w: empty watchlist name", models.ErrInvalidInput)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	list, err := c.store.CreateWatchlist(ctx, c.userID, name)
	observe("create", err)
	if err != nil {
		c.log().WithError(err).Error("Failed to create watchlist")
		return models.Watchlist{}, models.ErrorNotice("Could not create watchlist."), fmt.Errorf("failed to create watchlist: %w", err)
	}

	c.mu.Lock()
	c.lists = append(c.lists, list)
	c.mu.Unlock()

	c.log().WithFields(logrus.Fields{"watchlist_id": list.ID, "name": name}).Info("Watchlist created")
	return list, models.InfoNotice("Watchlist Created", fmt.Sprintf("%q has been created.", name)), nil
}

// Delete removes a watchlist and its saved preferences
func (c *WatchlistController) Delete(ctx context.Context, id string) (*models.Notice, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	list, ok := c.Get(id)
	if !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", id, models.ErrNotFound)
	}

	err := c.store.DeleteWatchlist(ctx, c.userID, id)
	observe("delete", err)
	if err != nil {
		c.log().WithError(err).WithField("watchlist_id", id).Error("Failed to delete watchlist")
		return models.ErrorNotice("Could not delete watchlist."), fmt.Errorf("failed to delete watchlist: %w", err)
	}

	c.mu.Lock()
	kept := make([]models.Watchlist, 0, len(c.lists))
	for _, w := range c.lists {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	c.lists = kept
	c.mu.Unlock()

	if c.prefs != nil {
		if err := c.prefs.Delete(c.userID, id); err != nil {
			c.log().WithError(err).WithField("watchlist_id", id).Warn("Failed to delete watchlist preferences")
		}
	}

	return models.InfoNotice("Watchlist Deleted", fmt.Sprintf("%q has been deleted.", list.Name)), nil
}

// Rename changes the name of a watchlist
func (c *WatchlistController) Rename(ctx context.Context, id, name string) (*models.Notice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ErrorNotice("Watchlist name cannot be empty."), fmt.Errorf("%w: empty watchlist name", models.ErrInvalidInput)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, ok := c.Get(id); !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", id, models.ErrNotFound)
	}

	err := c.store.RenameWatchlist(ctx, c.userID, id, name)
	observe("rename", err)
	if err != nil {
		c.log().WithError(err).WithField("watchlist_id", id).Error("Failed to rename watchlist")
		return models.ErrorNotice("Could not rename watchlist."), fmt.Errorf("failed to rename watchlist: %w", err)
	}

	c.mu.Lock()
	for i := range c.lists {
		if c.lists[i].ID == id {
			c.lists[i].Name = name
		}
	}
	c.mu.Unlock()

	return models.InfoNotice("Watchlist Updated", fmt.Sprintf("Watchlist has been renamed to %q.", name)), nil
}

func checkMediaType(m models.Movie) error {
	if _, err := models.ParseMediaType(string(m.MediaType)); err != nil {
		return fmt.Errorf("%w: movie %d: %v", models.ErrInvalidInput, m.ID, err)
	}
	return nil
}

// AddMovie stores a snapshot of movie in a watchlist. Adding a title that
// is already there is a no-op with an info notice.
func (c *WatchlistController) AddMovie(ctx context.Context, listID string, movie models.Movie) (*models.Notice, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	list, ok := c.Get(listID)
	if !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", listID, models.ErrNotFound)
	}
	if err := checkMediaType(movie); err != nil {
		return models.ErrorNotice("Could not add movie to watchlist."), err
	}

	if list.Contains(movie.Key()) {
		return models.InfoNotice("Already in Watchlist", fmt.Sprintf("%s is already in %q.", movie.Title, list.Name)), nil
	}

	err := c.store.InsertItems(ctx, listID, []models.Movie{movie})
	observe("add", err)
	if err != nil {
		c.log().WithError(err).WithFields(logrus.Fields{
			"watchlist_id": listID,
			"movie":        movie.Key().String(),
		}).Error("Failed to add movie to watchlist")
		return models.ErrorNotice("Could not add movie to watchlist."), fmt.Errorf("failed to add movie: %w", err)
	}

	c.refreshAfterInsert(ctx, listID, []models.Movie{movie})
	return models.InfoNotice("Added to Watchlist", fmt.Sprintf("%s has been added to %q.", movie.Title, list.Name)), nil
}

// AddMovies stores the movies that are not in the watchlist yet and
// returns exactly those
func (c *WatchlistController) AddMovies(ctx context.Context, listID string, movies []models.Movie) ([]models.Movie, *models.Notice, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	list, ok := c.Get(listID)
	if !ok {
		return nil, models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", listID, models.ErrNotFound)
	}
	if len(movies) == 0 {
		return []models.Movie{}, nil, nil
	}

	seen := make(map[models.MovieKey]bool, len(movies))
	newMovies := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if err := checkMediaType(m); err != nil {
			return nil, models.ErrorNotice("Could not import items."), err
		}
		key := m.Key()
		if seen[key] || list.Contains(key) {
			continue
		}
		seen[key] = true
		newMovies = append(newMovies, m)
	}

	if len(newMovies) == 0 {
		return []models.Movie{}, models.InfoNotice("All Items Exist", "All the imported items are already in this watchlist."), nil
	}

	err := c.store.InsertItems(ctx, listID, newMovies)
	observe("add_many", err)
	if err != nil {
		c.log().WithError(err).WithField("watchlist_id", listID).Error("Failed to batch add movies")
		return nil, models.ErrorNotice("Could not import items."), fmt.Errorf("failed to add movies: %w", err)
	}

	c.refreshAfterInsert(ctx, listID, newMovies)
	c.log().WithFields(logrus.Fields{
		"watchlist_id": listID,
		"added":        len(newMovies),
		"skipped":      len(movies) - len(newMovies),
	}).Info("Movies added to watchlist")

	return newMovies, models.InfoNotice("Import Successful", fmt.Sprintf("%d new items have been added to %q.", len(newMovies), list.Name)), nil
}

// RemoveMovie deletes one title, identified by id and media type
func (c *WatchlistController) RemoveMovie(ctx context.Context, listID string, movieID int, mediaType models.MediaType) (*models.Notice, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	list, ok := c.Get(listID)
	if !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", listID, models.ErrNotFound)
	}

	key := models.MovieKey{ID: movieID, MediaType: mediaType}
	var movie models.Movie
	found := false
	for _, m := range list.Movies {
		if m.Key() == key {
			movie, found = m, true
			break
		}
	}
	if !found {
		return models.ErrorNotice("Movie is not in this watchlist."), fmt.Errorf("%s in watchlist %s: %w", key, listID, models.ErrNotFound)
	}

	_, err := c.store.DeleteItems(ctx, listID, []models.MovieKey{key})
	observe("remove", err)
	if err != nil {
		c.log().WithError(err).WithFields(logrus.Fields{
			"watchlist_id": listID,
			"movie":        key.String(),
		}).Error("Failed to remove movie from watchlist")
		return models.ErrorNotice("Could not remove movie from watchlist."), fmt.Errorf("failed to remove movie: %w", err)
	}

	c.dropLocal(listID, map[models.MovieKey]bool{key: true})
	return models.InfoNotice("Removed from Watchlist", fmt.Sprintf("%s has been removed from %q.", movie.Title, list.Name)), nil
}

// RemoveMovies deletes several titles by their (id, media type) identity
func (c *WatchlistController) RemoveMovies(ctx context.Context, listID string, movies []models.Movie) (*models.Notice, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	list, ok := c.Get(listID)
	if !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", listID, models.ErrNotFound)
	}
	if len(movies) == 0 {
		return nil, nil
	}

	remove := make(map[models.MovieKey]bool, len(movies))
	keys := make([]models.MovieKey, 0, len(movies))
	for _, m := range movies {
		if !remove[m.Key()] {
			remove[m.Key()] = true
			keys = append(keys, m.Key())
		}
	}

	n, err := c.store.DeleteItems(ctx, listID, keys)
	observe("remove_many", err)
	if err != nil {
		c.log().WithError(err).WithField("watchlist_id", listID).Error("Failed to remove movies from watchlist")
		return models.ErrorNotice("Could not remove items from watchlist."), fmt.Errorf("failed to remove movies: %w", err)
	}

	c.dropLocal(listID, remove)
	return models.InfoNotice("Items Removed", fmt.Sprintf("%d items have been removed from %q.", n, list.Name)), nil
}

// MoveMovies moves titles from one watchlist to another in a single
// transaction. Titles already in the destination get their snapshot
// replaced.
func (c *WatchlistController) MoveMovies(ctx context.Context, srcID, dstID string, movies []models.Movie) (*models.Notice, error) {
	if srcID == dstID {
		return models.ErrorNotice("Source and destination watchlists are the same."), fmt.Errorf("%w: move into the same watchlist", models.ErrInvalidInput)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	src, ok := c.Get(srcID)
	if !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", srcID, models.ErrNotFound)
	}
	dst, ok := c.Get(dstID)
	if !ok {
		return models.ErrorNotice("Watchlist not found."), fmt.Errorf("watchlist %s: %w", dstID, models.ErrNotFound)
	}
	if len(movies) == 0 {
		return nil, nil
	}

	// prefer the stored snapshot so a move never loses fields the caller left out
	stored := make(map[models.MovieKey]models.Movie, len(src.Movies))
	for _, m := range src.Movies {
		stored[m.Key()] = m
	}
	seen := make(map[models.MovieKey]bool, len(movies))
	toMove := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		key := m.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		if s, ok := stored[key]; ok {
			toMove = append(toMove, s)
		} else {
			toMove = append(toMove, m)
		}
	}

	err := c.store.MoveItems(ctx, srcID, dstID, toMove)
	observe("move", err)
	if err != nil {
		c.log().WithError(err).WithFields(logrus.Fields{
			"source_id":      srcID,
			"destination_id": dstID,
		}).Error("Failed to move movies")
		return models.ErrorNotice("Could not move items."), fmt.Errorf("failed to move movies: %w", err)
	}

	if _, err := c.Refresh(ctx); err != nil {
		// the move is committed; rebuild the two lists locally
		c.log().WithError(err).Warn("Refetch after move failed, applying move locally")
		c.applyMoveLocal(srcID, dstID, toMove)
	}

	return models.InfoNotice("Items Moved", fmt.Sprintf("%d items moved to %q.", len(toMove), dst.Name)), nil
}

// IsMovieInAnyWatchlist reports whether any list holds the exact identity
func (c *WatchlistController) IsMovieInAnyWatchlist(movieID int, mediaType models.MediaType) bool {
	return len(c.WatchlistsContaining(movieID, mediaType)) > 0
}

// WatchlistsContaining returns the ids of the lists holding the identity
func (c *WatchlistController) WatchlistsContaining(movieID int, mediaType models.MediaType) []string {
	key := models.MovieKey{ID: movieID, MediaType: mediaType}

	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := []string{}
	for _, w := range c.lists {
		if w.Contains(key) {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

// Get returns a copy of one watchlist
func (c *WatchlistController) Get(id string) (models.Watchlist, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, w := range c.lists {
		if w.ID == id {
			return copyWatchlist(w), true
		}
	}
	return models.Watchlist{}, false
}

// List returns copies of all watchlists in creation order
func (c *WatchlistController) List() []models.Watchlist {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lists := make([]models.Watchlist, 0, len(c.lists))
	for _, w := range c.lists {
		lists = append(lists, copyWatchlist(w))
	}
	return lists
}

// Preferences returns the saved display settings of a watchlist
func (c *WatchlistController) Preferences(id string) (models.WatchlistPreferences, error) {
	if _, ok := c.Get(id); !ok {
		return models.WatchlistPreferences{}, fmt.Errorf("watchlist %s: %w", id, models.ErrNotFound)
	}
	if c.prefs == nil {
		return models.DefaultPreferences(), nil
	}
	return c.prefs.Get(c.userID, id)
}

// SavePreferences persists the display settings of a watchlist
func (c *WatchlistController) SavePreferences(id string, prefs models.WatchlistPreferences) (models.WatchlistPreferences, error) {
	if _, ok := c.Get(id); !ok {
		return models.WatchlistPreferences{}, fmt.Errorf("watchlist %s: %w", id, models.ErrNotFound)
	}
	if c.prefs == nil {
		return prefs, nil
	}
	return c.prefs.Save(c.userID, id, prefs)
}

// View returns a watchlist with its movies sorted and filtered for display.
// Empty sort or filter values fall back to the saved preferences.
func (c *WatchlistController) View(id string, sortBy models.SortOption, filter models.FilterOption) (models.Watchlist, models.WatchlistPreferences, error) {
	list, ok := c.Get(id)
	if !ok {
		return models.Watchlist{}, models.WatchlistPreferences{}, fmt.Errorf("watchlist %s: %w", id, models.ErrNotFound)
	}

	prefs, err := c.Preferences(id)
	if err != nil {
		c.log().WithError(err).WithField("watchlist_id", id).Warn("Failed to read watchlist preferences")
		prefs = models.DefaultPreferences()
	}
	if sortBy != "" {
		prefs.Sort = sortBy
	}
	if filter != "" {
		prefs.Filter = filter
	}

	list.Movies = models.SortMovies(list.Movies, prefs.Sort, prefs.Filter)
	return list, prefs, nil
}

// refreshAfterWrite refetches after a committed write; a failed refetch
// only leaves the cache stale and is logged
func (c *WatchlistController) refreshAfterWrite(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil {
		c.log().WithError(err).Warn("Refetch after write failed")
	}
}

// refreshAfterInsert refetches so the list picks up store ordering. When
// the refetch fails the inserted movies are put in front locally.
func (c *WatchlistController) refreshAfterInsert(ctx context.Context, listID string, inserted []models.Movie) {
	if _, err := c.Refresh(ctx); err != nil {
		c.log().WithError(err).Warn("Refetch after insert failed, applying insert locally")
		c.prependLocal(listID, inserted)
	}
}

// prependLocal mirrors store ordering: newest first, and within one batch
// the last inserted first
func (c *WatchlistController) prependLocal(listID string, inserted []models.Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lists {
		if c.lists[i].ID != listID {
			continue
		}
		movies := make([]models.Movie, 0, len(inserted)+len(c.lists[i].Movies))
		for j := len(inserted) - 1; j >= 0; j-- {
			movies = append(movies, inserted[j].Snapshot())
		}
		c.lists[i].Movies = append(movies, c.lists[i].Movies...)
	}
}

func (c *WatchlistController) dropLocal(listID string, remove map[models.MovieKey]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lists {
		if c.lists[i].ID != listID {
			continue
		}
		kept := make([]models.Movie, 0, len(c.lists[i].Movies))
		for _, m := range c.lists[i].Movies {
			if !remove[m.Key()] {
				kept = append(kept, m)
			}
		}
		c.lists[i].Movies = kept
	}
}

func (c *WatchlistController) applyMoveLocal(srcID, dstID string, moved []models.Movie) {
	keys := make(map[models.MovieKey]bool, len(moved))
	for _, m := range moved {
		keys[m.Key()] = true
	}
	c.dropLocal(srcID, keys)
	c.dropLocal(dstID, keys)
	c.prependLocal(dstID, moved)
}

func copyWatchlist(w models.Watchlist) models.Watchlist {
	movies := make([]models.Movie, len(w.Movies))
	copy(movies, w.Movies)
	w.Movies = movies
	return w
}
