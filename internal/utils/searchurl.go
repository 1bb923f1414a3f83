package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/cinelist/internal/models"
)

// Placeholder is the token a search-site template must contain
const Placeholder = "query"

// MaxEpisodeToken is the last episode offered by the episode picker
const MaxEpisodeToken = 20

// SearchOptions selects what goes into a generated search query
type SearchOptions struct {
	IncludeYear bool
	Season      string // e.g. "S02"
	Episode     string // e.g. "E05", only used with a season
	Keywords    []string
}

// BuildQuery assembles the unencoded search query
func BuildQuery(title string, year int, opts SearchOptions) string {
	query := title

	if opts.Season != "" {
		query = title + " " + opts.Season
		if opts.Episode != "" {
			query += opts.Episode
		}
	} else if opts.IncludeYear && year > 0 {
		query += " " + strconv.Itoa(year)
	}

	if len(opts.Keywords) > 0 {
		query += " " + strings.Join(opts.Keywords, " ")
	}

	return query
}

// BuildSearchURL substitutes the encoded query for the first placeholder
// in template
func BuildSearchURL(template, title string, year int, opts SearchOptions) string {
	return strings.Replace(template, Placeholder, EncodeURIComponent(BuildQuery(title, year, opts)), 1)
}

// uriComponentFixes undoes the differences between url.QueryEscape and a
// browser's encodeURIComponent
var uriComponentFixes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s as one URI component. Spaces become
// %20 and the unreserved marks -_.!~*'() are kept.
func EncodeURIComponent(s string) string {
	return uriComponentFixes.Replace(url.QueryEscape(s))
}

// SeasonToken formats a season number as S01
func SeasonToken(n int) string {
	return fmt.Sprintf("S%02d", n)
}

// EpisodeToken formats an episode number as E01
func EpisodeToken(n int) string {
	return fmt.Sprintf("E%02d", n)
}

// SeasonTokens lists S01 up to the given number of seasons
func SeasonTokens(numberOfSeasons int) []string {
	tokens := make([]string, 0, numberOfSeasons)
	for i := 1; i <= numberOfSeasons; i++ {
		tokens = append(tokens, SeasonToken(i))
	}
	return tokens
}

// EpisodeTokens lists E01..E20
func EpisodeTokens() []string {
	tokens := make([]string, 0, MaxEpisodeToken)
	for i := 1; i <= MaxEpisodeToken; i++ {
		tokens = append(tokens, EpisodeToken(i))
	}
	return tokens
}

// YearFromDate returns the year of a YYYY-MM-DD date, or 0
func YearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// GeneratedURL is a search URL for one site
type GeneratedURL struct {
	SiteID string `json:"site_id"`
	Site   string `json:"site"`
	URL    string `json:"url"`
}

// GenerateURLs builds the search URL of every site for a title
func GenerateURLs(sites []models.SearchSite, movie models.Movie, opts SearchOptions) []GeneratedURL {
	year := YearFromDate(movie.ReleaseDate)
	urls := make([]GeneratedURL, 0, len(sites))
	for _, s := range sites {
		urls = append(urls, GeneratedURL{
			SiteID: s.ID,
			Site:   s.Name,
			URL:    BuildSearchURL(s.SearchURL, movie.Title, year, opts),
		})
	}
	return urls
}

// ExternalLink points at a review or discussion site
type ExternalLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ExternalLinks returns IMDb (when the id is known), Rotten Tomatoes and
// Reddit links for a title
func ExternalLinks(movie models.Movie) []ExternalLink {
	links := make([]ExternalLink, 0, 3)
	if movie.IMDBID != "" {
		links = append(links, ExternalLink{Name: "IMDb", URL: "https://www.imdb.com/title/" + movie.IMDBID})
	}

	links = append(links, ExternalLink{
		Name: "Rotten Tomatoes",
		URL:  "https://www.rottentomatoes.com/search?search=" + EncodeURIComponent(movie.Title),
	})

	kind := "tv series"
	if movie.MediaType == models.MediaTypeMovie {
		kind = "movie"
	}
	links = append(links, ExternalLink{
		Name: "Reddit",
		URL:  "https://www.reddit.com/search/?q=" + EncodeURIComponent(movie.Title+" "+kind+" discussion"),
	})

	return links
}
