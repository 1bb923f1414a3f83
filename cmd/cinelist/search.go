package main

import (
	"fmt"
	"strings"

	"github.com/amaumene/cinelist/internal/app"
	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/utils"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies and TV shows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cli, cleanup, err := app.InitializeCLI(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			movies, err := cli.Catalog.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range movies {
				year := "----"
				if y := utils.YearFromDate(m.ReleaseDate); y > 0 {
					year = fmt.Sprint(y)
				}
				fmt.Fprintf(out, "%-5s %-8d %s  %s\n", m.MediaType, m.ID, year, m.Title)
			}
			if len(movies) == 0 {
				fmt.Fprintln(out, "No results.")
			}
			return nil
		},
	}
}
