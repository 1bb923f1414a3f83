package models

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Watchlist is a named, user-owned, ordered collection of movie snapshots
type Watchlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Movies []Movie `json:"movies"`
}

// Contains reports whether the list holds the given identity
func (w Watchlist) Contains(key MovieKey) bool {
	for _, m := range w.Movies {
		if m.Key() == key {
			return true
		}
	}
	return false
}

// SearchSite is a user-configurable search URL with a `query` placeholder
type SearchSite struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SearchURL string `json:"searchUrl"`
}

// Notice is a transient user-visible message produced by an operation
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// InfoNotice builds an informational notice
func InfoNotice(title, message string) *Notice {
	return &Notice{Level: NoticeInfo, Title: title, Message: message}
}

// ErrorNotice builds a destructive notice
func ErrorNotice(message string) *Notice {
	return &Notice{Level: NoticeError, Title: "Error", Message: message}
}

// WatchlistPreferences holds the display settings of one watchlist
type WatchlistPreferences struct {
	Sort      SortOption   `json:"sort"`
	Filter    FilterOption `json:"filter"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DefaultPreferences is used for watchlists without saved preferences
func DefaultPreferences() WatchlistPreferences {
	return WatchlistPreferences{Sort: SortRecentlyAdded, Filter: FilterAll}
}

// SortMovies returns a filtered and re-ordered copy of movies for display.
// The input slice is never modified.
func SortMovies(movies []Movie, sortBy SortOption, filter FilterOption) []Movie {
	items := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if filter != "" && filter != FilterAll && string(m.MediaType) != string(filter) {
			continue
		}
		items = append(items, m)
	}

	switch sortBy {
	case SortName:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return c.CompareString(items[i].Title, items[j].Title) < 0
		})
	case SortReleaseDate:
		// newest first, undated titles last
		sort.SliceStable(items, func(i, j int) bool {
			a, b := parseReleaseDate(items[i].ReleaseDate), parseReleaseDate(items[j].ReleaseDate)
			return a.After(b)
		})
	}

	return items
}

func parseReleaseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
