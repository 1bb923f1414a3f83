package main

import (
	"fmt"

	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/utils"
	"github.com/spf13/cobra"
)

type urlOptions struct {
	template    string
	title       string
	releaseDate string
	includeYear bool
	season      int
	episode     int
	keywords    []string
}

func newURLCmd() *cobra.Command {
	var opts urlOptions

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print search-site URLs for a title without calling the catalog",
		Example: `  cinelist url --title "Breaking Bad" --season 1 --episode 2
  cinelist url --title Dune --date 2021-09-15 --year --template "https://example.com/?q=query"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.template, "template", "", "search URL template containing `query`; all default sites when empty")
	f.StringVar(&opts.title, "title", "", "title to search for")
	f.StringVar(&opts.releaseDate, "date", "", "release date (YYYY-MM-DD), used with --year")
	f.BoolVar(&opts.includeYear, "year", false, "append the release year when no season is given")
	f.IntVar(&opts.season, "season", 0, "season number")
	f.IntVar(&opts.episode, "episode", 0, "episode number, requires --season")
	f.StringSliceVar(&opts.keywords, "keyword", nil, "keyword appended to the query (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runURL(cmd *cobra.Command, opts urlOptions) error {
	search := utils.SearchOptions{IncludeYear: opts.includeYear, Keywords: opts.keywords}
	if opts.season > 0 {
		search.Season = utils.SeasonToken(opts.season)
	}
	if opts.episode > 0 {
		if search.Season == "" {
			return fmt.Errorf("%w: --episode requires --season", models.ErrInvalidInput)
		}
		search.Episode = utils.EpisodeToken(opts.episode)
	}

	sites := controllers.DefaultSearchSites
	if opts.template != "" {
		if err := controllers.ValidateTemplate(opts.template); err != nil {
			return err
		}
		sites = []models.SearchSite{{Name: "custom", SearchURL: opts.template}}
	}

	movie := models.Movie{Title: opts.title, ReleaseDate: opts.releaseDate}
	for _, u := range utils.GenerateURLs(sites, movie, search) {
		if opts.template != "" {
			fmt.Fprintln(cmd.OutOrStdout(), u.URL)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", u.Site, u.URL)
	}
	return nil
}
