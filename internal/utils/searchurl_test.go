package utils

import (
	"testing"

	"github.com/amaumene/cinelist/internal/models"
	"github.com/stretchr/testify/assert"
)

const tpbTemplate = "https://thepiratebay.org/search.php?q=query"

func TestBuildSearchURL(t *testing.T) {
	tests := []struct {
		name  string
		title string
		year  int
		opts  SearchOptions
		want  string
	}{
		{
			name:  "title with year",
			title: "Dune", year: 2021,
			opts: SearchOptions{IncludeYear: true},
			want: "https://thepiratebay.org/search.php?q=Dune%202021",
		},
		{
			name:  "season and episode drop the year",
			title: "Breaking Bad", year: 2008,
			opts: SearchOptions{IncludeYear: true, Season: "S02", Episode: "E05"},
			want: "https://thepiratebay.org/search.php?q=Breaking%20Bad%20S02E05",
		},
		{
			name:  "keywords last",
			title: "Dune", year: 2021,
			opts: SearchOptions{IncludeYear: true, Keywords: []string{"1080p", "HDR"}},
			want: "https://thepiratebay.org/search.php?q=Dune%202021%201080p%20HDR",
		},
		{
			name:  "year excluded",
			title: "Dune", year: 2021,
			opts: SearchOptions{},
			want: "https://thepiratebay.org/search.php?q=Dune",
		},
		{
			name:  "no year known",
			title: "Dune",
			opts:  SearchOptions{IncludeYear: true},
			want:  "https://thepiratebay.org/search.php?q=Dune",
		},
		{
			name:  "episode without season is ignored",
			title: "Dark", year: 2017,
			opts: SearchOptions{Episode: "E01"},
			want: "https://thepiratebay.org/search.php?q=Dark",
		},
		{
			name:  "reserved characters",
			title: "Tom & Jerry: The Movie?", year: 0,
			opts: SearchOptions{},
			want: "https://thepiratebay.org/search.php?q=Tom%20%26%20Jerry%3A%20The%20Movie%3F",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchURL(tpbTemplate, tt.title, tt.year, tt.opts))
		})
	}
}

func TestBuildSearchURLReplacesFirstPlaceholderOnly(t *testing.T) {
	got := BuildSearchURL("https://example.com/query/query", "Alien", 1979, SearchOptions{IncludeYear: true})
	assert.Equal(t, "https://example.com/Alien%201979/query", got)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "Am%C3%A9lie", EncodeURIComponent("Amélie"))
	assert.Equal(t, "-_.!~*'()", EncodeURIComponent("-_.!~*'()"))
	assert.Equal(t, "a%2Bb%2Fc", EncodeURIComponent("a+b/c"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "S02", SeasonToken(2))
	assert.Equal(t, "E05", EpisodeToken(5))
	assert.Equal(t, "S12", SeasonToken(12))
	assert.Equal(t, []string{"S01", "S02", "S03"}, SeasonTokens(3))
	assert.Empty(t, SeasonTokens(0))

	episodes := EpisodeTokens()
	assert.Len(t, episodes, 20)
	assert.Equal(t, "E01", episodes[0])
	assert.Equal(t, "E20", episodes[19])
}

func TestYearFromDate(t *testing.T) {
	assert.Equal(t, 2021, YearFromDate("2021-10-22"))
	assert.Equal(t, 0, YearFromDate(""))
	assert.Equal(t, 0, YearFromDate("n/a"))
}

func TestGenerateURLs(t *testing.T) {
	sites := []models.SearchSite{
		{ID: "1", Name: "1337x", SearchURL: "https://1337x.to/search/query/1/"},
		{ID: "2", Name: "YTS", SearchURL: "https://yts.mx/browse-movies/query"},
	}
	movie := models.Movie{Title: "Dune", ReleaseDate: "2021-10-22", MediaType: models.MediaTypeMovie}

	urls := GenerateURLs(sites, movie, SearchOptions{IncludeYear: true})
	assert.Equal(t, []GeneratedURL{
		{SiteID: "1", Site: "1337x", URL: "https://1337x.to/search/Dune%202021/1/"},
		{SiteID: "2", Site: "YTS", URL: "https://yts.mx/browse-movies/Dune%202021"},
	}, urls)
}

func TestExternalLinks(t *testing.T) {
	links := ExternalLinks(models.Movie{Title: "Dark", MediaType: models.MediaTypeTV})
	assert.Len(t, links, 2)
	assert.Equal(t, "https://www.reddit.com/search/?q=Dark%20tv%20series%20discussion", links[1].URL)

	links = ExternalLinks(models.Movie{Title: "Inception", MediaType: models.MediaTypeMovie, IMDBID: "tt1375666"})
	assert.Len(t, links, 3)
	assert.Equal(t, "https://www.imdb.com/title/tt1375666", links[0].URL)
	assert.Equal(t, "https://www.rottentomatoes.com/search?search=Inception", links[1].URL)
	assert.Equal(t, "https://www.reddit.com/search/?q=Inception%20movie%20discussion", links[2].URL)
}
