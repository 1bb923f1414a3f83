package tmdb

import (
	"errors"
	"fmt"

	"github.com/amaumene/cinelist/internal/models"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p"
	imageSize    = "/original"

	unknownTitle = "Unknown Title"
	maxCast      = 10
)

// ErrMissingMediaType is returned when neither the caller nor the item
// says whether a title is a movie or a show
var ErrMissingMediaType = errors.New("media type is missing for an item")

// Normalize converts a raw list item into a Movie. An explicit mediaType
// wins over the item's own media_type.
func Normalize(item Item, mediaType models.MediaType) (models.Movie, error) {
	mt := mediaType
	if mt == "" {
		mt = models.MediaType(item.MediaType)
	}
	if mt == "" {
		return models.Movie{}, fmt.Errorf("item %d: %w", item.ID, ErrMissingMediaType)
	}

	title := item.Title
	if title == "" {
		title = item.Name
	}
	if title == "" {
		title = unknownTitle
	}

	date := item.ReleaseDate
	if date == "" {
		date = item.FirstAirDate
	}

	genres := make([]string, 0, len(item.Genres))
	for _, g := range item.Genres {
		genres = append(genres, g.Name)
	}

	return models.Movie{
		ID:           item.ID,
		Title:        title,
		Overview:     item.Overview,
		PosterPath:   imageURL(item.PosterPath),
		BackdropPath: imageURL(item.BackdropPath),
		ReleaseDate:  date,
		VoteAverage:  item.VoteAverage,
		MediaType:    mt,
		Genres:       genres,
	}, nil
}

// NormalizeDetails converts a detail response, including credits, videos,
// recommendations and external ids
func NormalizeDetails(item ItemDetails, mediaType models.MediaType) (models.Movie, error) {
	movie, err := Normalize(item.Item, mediaType)
	if err != nil {
		return models.Movie{}, err
	}

	switch {
	case item.Runtime != nil:
		movie.Runtime = item.Runtime
	case len(item.EpisodeRunTime) > 0 && item.EpisodeRunTime[0] != 0:
		rt := item.EpisodeRunTime[0]
		movie.Runtime = &rt
	}

	movie.Cast = []models.CastMember{}
	if item.Credits != nil {
		cast := item.Credits.Cast
		if len(cast) > maxCast {
			cast = cast[:maxCast]
		}
		movie.Cast = append(movie.Cast, cast...)
	}

	movie.Videos = []models.Video{}
	if item.Videos != nil {
		for _, v := range item.Videos.Results {
			if v.Site == "YouTube" && (v.Type == "Trailer" || v.Type == "Teaser") {
				movie.Videos = append(movie.Videos, v)
			}
		}
	}

	movie.Recommendations = []models.Movie{}
	if item.Recommendations != nil {
		for _, r := range item.Recommendations.Results {
			rec, err := Normalize(r, "")
			if err != nil {
				return models.Movie{}, fmt.Errorf("recommendation: %w", err)
			}
			movie.Recommendations = append(movie.Recommendations, rec)
		}
	}

	movie.NumberOfSeasons = item.NumberOfSeasons
	movie.NumberOfEpisodes = item.NumberOfEpisodes

	if item.ExternalIDs != nil && item.ExternalIDs.IMDBID != nil {
		movie.IMDBID = *item.ExternalIDs.IMDBID
	}

	return movie, nil
}

func imageURL(path *string) string {
	if path == nil || *path == "" {
		return ""
	}
	return imageBaseURL + imageSize + *path
}
