package tmdb

import (
	"encoding/json"
	"testing"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeTitleFallbacks(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{name: "movie title", item: Item{ID: 1, Title: "Inception", Name: "ignored"}, want: "Inception"},
		{name: "series name", item: Item{ID: 2, Name: "Breaking Bad"}, want: "Breaking Bad"},
		{name: "neither", item: Item{ID: 3}, want: "Unknown Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Normalize(tt.item, models.MediaTypeMovie)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Title)
		})
	}
}

func TestNormalizeMediaType(t *testing.T) {
	item := Item{ID: 1396, Name: "Breaking Bad", MediaType: "tv"}

	m, err := Normalize(item, models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeMovie, m.MediaType, "explicit type wins")

	m, err = Normalize(item, "")
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeTV, m.MediaType)

	_, err = Normalize(Item{ID: 5}, "")
	assert.ErrorIs(t, err, ErrMissingMediaType)
}

func TestNormalizeImagesDatesAndGenres(t *testing.T) {
	m, err := Normalize(Item{
		ID:           1,
		PosterPath:   strPtr("/poster.jpg"),
		BackdropPath: nil,
		FirstAirDate: "2008-01-20",
	}, models.MediaTypeTV)
	require.NoError(t, err)

	assert.Equal(t, "https://image.tmdb.org/t/p/original/poster.jpg", m.PosterPath)
	assert.Equal(t, "", m.BackdropPath)
	assert.Equal(t, "2008-01-20", m.ReleaseDate)
	assert.NotNil(t, m.Genres)
	assert.Empty(t, m.Genres)

	m, err = Normalize(Item{ID: 2, PosterPath: strPtr(""), Genres: []Genre{{ID: 1, Name: "Drama"}, {ID: 2, Name: "Crime"}}}, models.MediaTypeTV)
	require.NoError(t, err)
	assert.Equal(t, "", m.PosterPath)
	assert.Equal(t, []string{"Drama", "Crime"}, m.Genres)
	assert.Equal(t, "", m.ReleaseDate)
}

const tvDetailsJSON = `{
  "id": 1396,
  "name": "Breaking Bad",
  "overview": "A chemistry teacher...",
  "poster_path": "/bb.jpg",
  "backdrop_path": null,
  "first_air_date": "2008-01-20",
  "vote_average": 8.9,
  "genres": [{"id": 18, "name": "Drama"}],
  "episode_run_time": [45, 47],
  "number_of_seasons": 5,
  "number_of_episodes": 62,
  "credits": {"cast": [
    {"id": 1, "name": "A", "character": "a", "profile_path": null},
    {"id": 2, "name": "B", "character": "b", "profile_path": "/b.jpg"},
    {"id": 3, "name": "C", "character": "c"}, {"id": 4, "name": "D", "character": "d"},
    {"id": 5, "name": "E", "character": "e"}, {"id": 6, "name": "F", "character": "f"},
    {"id": 7, "name": "G", "character": "g"}, {"id": 8, "name": "H", "character": "h"},
    {"id": 9, "name": "I", "character": "i"}, {"id": 10, "name": "J", "character": "j"},
    {"id": 11, "name": "K", "character": "k"}
  ]},
  "videos": {"results": [
    {"id": "v1", "key": "k1", "name": "Trailer", "site": "YouTube", "type": "Trailer"},
    {"id": "v2", "key": "k2", "name": "Clip", "site": "YouTube", "type": "Clip"},
    {"id": "v3", "key": "k3", "name": "Teaser", "site": "Vimeo", "type": "Teaser"},
    {"id": "v4", "key": "k4", "name": "Teaser", "site": "YouTube", "type": "Teaser"}
  ]},
  "recommendations": {"results": [
    {"id": 60059, "name": "Better Call Saul", "media_type": "tv", "poster_path": "/bcs.jpg"}
  ]},
  "external_ids": {"imdb_id": "tt0903747"}
}`

func TestNormalizeDetails(t *testing.T) {
	var raw ItemDetails
	require.NoError(t, json.Unmarshal([]byte(tvDetailsJSON), &raw))

	m, err := NormalizeDetails(raw, models.MediaTypeTV)
	require.NoError(t, err)

	assert.Equal(t, "Breaking Bad", m.Title)
	require.NotNil(t, m.Runtime)
	assert.Equal(t, 45, *m.Runtime)
	assert.Len(t, m.Cast, 10)
	assert.Nil(t, m.Cast[0].ProfilePath)

	require.Len(t, m.Videos, 2)
	assert.Equal(t, "v1", m.Videos[0].ID)
	assert.Equal(t, "v4", m.Videos[1].ID)

	require.Len(t, m.Recommendations, 1)
	rec := m.Recommendations[0]
	assert.Equal(t, models.MediaTypeTV, rec.MediaType)
	assert.Nil(t, rec.Runtime)
	assert.Empty(t, rec.Cast)

	require.NotNil(t, m.NumberOfSeasons)
	assert.Equal(t, 5, *m.NumberOfSeasons)
	assert.Equal(t, "tt0903747", m.IMDBID)
}

func TestNormalizeDetailsMovieRuntimeAndMissingExtras(t *testing.T) {
	runtime := 148
	m, err := NormalizeDetails(ItemDetails{Item: Item{ID: 27205, Title: "Inception"}, Runtime: &runtime}, models.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, 148, *m.Runtime)
	assert.Empty(t, m.Cast)
	assert.Empty(t, m.Videos)
	assert.Empty(t, m.Recommendations)
	assert.Equal(t, "", m.IMDBID)

	m, err = NormalizeDetails(ItemDetails{Item: Item{ID: 1}}, models.MediaTypeTV)
	require.NoError(t, err)
	assert.Nil(t, m.Runtime)
}

func TestNormalizeDetailsRecommendationWithoutMediaType(t *testing.T) {
	raw := ItemDetails{Item: Item{ID: 1, Title: "X"}}
	raw.Recommendations = &struct {
		Results []Item `json:"results"`
	}{Results: []Item{{ID: 2, Title: "Y"}}}

	_, err := NormalizeDetails(raw, models.MediaTypeMovie)
	assert.ErrorIs(t, err, ErrMissingMediaType)
}
