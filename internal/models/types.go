package models

import "fmt"

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType validates a media type coming from a URL or CLI flag
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeTV:
		return MediaType(s), nil
	default:
		return "", fmt.Errorf("invalid media type %q", s)
	}
}

// SortOption is a display-only ordering for watchlist contents
type SortOption string

const (
	SortRecentlyAdded SortOption = "recently_added"
	SortName          SortOption = "name"
	SortReleaseDate   SortOption = "release_date"
)

// FilterOption restricts watchlist contents to one media type
type FilterOption string

const (
	FilterAll   FilterOption = "all"
	FilterMovie FilterOption = "movie"
	FilterTV    FilterOption = "tv"
)

// NoticeLevel is the severity of a user-visible notice
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)
