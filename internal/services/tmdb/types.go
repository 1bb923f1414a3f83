package tmdb

import "github.com/amaumene/cinelist/internal/models"

// Genre is a TMDB genre object
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Item is a raw entry of a TMDB list or search response
type Item struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	MediaType    string  `json:"media_type"`
	GenreIDs     []int   `json:"genre_ids"`
	Genres       []Genre `json:"genres"`
}

// ItemDetails is a raw detail response with appended sub-resources
type ItemDetails struct {
	Item

	Runtime          *int  `json:"runtime"`
	EpisodeRunTime   []int `json:"episode_run_time"`
	NumberOfSeasons  *int  `json:"number_of_seasons"`
	NumberOfEpisodes *int  `json:"number_of_episodes"`

	Credits *struct {
		Cast []models.CastMember `json:"cast"`
	} `json:"credits"`
	Videos *struct {
		Results []models.Video `json:"results"`
	} `json:"videos"`
	Recommendations *struct {
		Results []Item `json:"results"`
	} `json:"recommendations"`
	ExternalIDs *struct {
		IMDBID *string `json:"imdb_id"`
	} `json:"external_ids"`
}

// PagedResponse is the envelope of list endpoints
type PagedResponse struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}
