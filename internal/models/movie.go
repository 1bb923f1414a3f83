package models

import "fmt"

// Movie is the normalized record for a movie or tv show.
// Watchlists store copies of it taken at add time.
type Movie struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	ReleaseDate  string    `json:"release_date"`
	VoteAverage  float64   `json:"vote_average"`
	MediaType    MediaType `json:"media_type"`
	Genres       []string  `json:"genres"`

	// Detail fields, only set by detailed normalization
	Runtime          *int         `json:"runtime,omitempty"`
	Cast             []CastMember `json:"cast,omitempty"`
	Videos           []Video      `json:"videos,omitempty"`
	Recommendations  []Movie      `json:"recommendations,omitempty"`
	NumberOfSeasons  *int         `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes *int         `json:"number_of_episodes,omitempty"`
	IMDBID           string       `json:"imdb_id,omitempty"`
}

// MovieKey is the composite identity of a title. The same numeric id
// is reused across media types, so both parts are required.
type MovieKey struct {
	ID        int
	MediaType MediaType
}

func (k MovieKey) String() string {
	return fmt.Sprintf("%s:%d", k.MediaType, k.ID)
}

// Key returns the composite identity of the movie
func (m Movie) Key() MovieKey {
	return MovieKey{ID: m.ID, MediaType: m.MediaType}
}

// Snapshot returns the copy stored in a watchlist. Recommendations are
// dropped so snapshots don't carry nested catalogs around.
func (m Movie) Snapshot() Movie {
	m.Recommendations = nil
	return m
}

// CastMember represents a credited actor
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// Video represents a trailer or teaser hosted on an external video site
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}
