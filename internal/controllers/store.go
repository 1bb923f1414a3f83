package controllers

import (
	"context"

	"github.com/amaumene/cinelist/internal/models"
)

// WatchlistStore is the persistence the watchlist controller needs
type WatchlistStore interface {
	ListWatchlists(ctx context.Context, userID string) ([]models.Watchlist, error)
	CreateWatchlist(ctx context.Context, userID, name string) (models.Watchlist, error)
	RenameWatchlist(ctx context.Context, userID, id, name string) error
	DeleteWatchlist(ctx context.Context, userID, id string) error
	InsertItems(ctx context.Context, watchlistID string, movies []models.Movie) error
	DeleteItems(ctx context.Context, watchlistID string, keys []models.MovieKey) (int64, error)
	MoveItems(ctx context.Context, srcID, dstID string, movies []models.Movie) error
}

// SiteStore persists search-site templates
type SiteStore interface {
	ListSites(ctx context.Context, userID string) ([]models.SearchSite, error)
	CreateSites(ctx context.Context, userID string, sites []models.SearchSite) ([]models.SearchSite, error)
	UpdateSite(ctx context.Context, userID string, site models.SearchSite) error
	DeleteSite(ctx context.Context, userID, id string) error
}

// KeywordStore persists custom keywords
type KeywordStore interface {
	ListKeywords(ctx context.Context, userID string) ([]string, error)
	AddKeyword(ctx context.Context, userID, keyword string) error
	DeleteKeyword(ctx context.Context, userID, keyword string) error
}

// Store is everything a user session reads and writes
type Store interface {
	WatchlistStore
	SiteStore
	KeywordStore
}

// PreferenceStore keeps per-watchlist display settings
type PreferenceStore interface {
	Get(userID, watchlistID string) (models.WatchlistPreferences, error)
	Save(userID, watchlistID string, prefs models.WatchlistPreferences) (models.WatchlistPreferences, error)
	Delete(userID, watchlistID string) error
}

//go:generate mockgen -destination=mocks/searcher_mock.go -package=mocks github.com/amaumene/cinelist/internal/controllers TitleSearcher

// TitleSearcher finds catalog titles by free text
type TitleSearcher interface {
	Search(ctx context.Context, query string) ([]models.Movie, error)
}
