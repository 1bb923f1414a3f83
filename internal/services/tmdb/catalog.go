package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/cinelist/internal/models"
)

const detailAppends = "credits,videos,recommendations,external_ids"

// Popular returns the popular list for a media type
func (c *Client) Popular(ctx context.Context, mediaType models.MediaType) ([]models.Movie, error) {
	return c.list(ctx, string(mediaType)+"/popular", mediaType)
}

// TopRated returns the top rated list for a media type
func (c *Client) TopRated(ctx context.Context, mediaType models.MediaType) ([]models.Movie, error) {
	return c.list(ctx, string(mediaType)+"/top_rated", mediaType)
}

// Upcoming returns upcoming movies. TMDB has no upcoming list for shows.
func (c *Client) Upcoming(ctx context.Context) ([]models.Movie, error) {
	return c.list(ctx, "movie/upcoming", models.MediaTypeMovie)
}

func (c *Client) list(ctx context.Context, path string, mediaType models.MediaType) ([]models.Movie, error) {
	var resp PagedResponse
	if err := c.doRequest(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	movies := make([]models.Movie, 0, len(resp.Results))
	for _, item := range resp.Results {
		m, err := Normalize(item, mediaType)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// Search runs a multi search and keeps movies and shows that have a poster
func (c *Client) Search(ctx context.Context, query string) ([]models.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Movie{}, nil
	}

	var resp PagedResponse
	params := url.Values{"query": {query}}
	if err := c.doRequest(ctx, "search/multi", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	movies := make([]models.Movie, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.MediaType != string(models.MediaTypeMovie) && item.MediaType != string(models.MediaTypeTV) {
			continue
		}
		if item.PosterPath == nil || *item.PosterPath == "" {
			continue
		}
		m, err := Normalize(item, "")
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// Details fetches one title with credits, videos, recommendations and
// external ids. A 404 from TMDB maps to models.ErrNotFound.
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id int) (models.Movie, error) {
	path := string(mediaType) + "/" + strconv.Itoa(id)
	params := url.Values{"append_to_response": {detailAppends}}

	var resp ItemDetails
	if err := c.doRequest(ctx, path, params, &resp); err != nil {
		if IsNotFound(err) {
			return models.Movie{}, fmt.Errorf("%s %d: %w", mediaType, id, models.ErrNotFound)
		}
		return models.Movie{}, fmt.Errorf("failed to fetch details for %s %d: %w", mediaType, id, err)
	}

	return NormalizeDetails(resp, mediaType)
}
