package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amaumene/cinelist/internal/app"
	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/controllers"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var userID, list string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Add one title per line from a file (or stdin) to a watchlist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer f.Close()
				in = f
			}
			text, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read import text: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cli, cleanup, err := app.InitializeCLI(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			sess, err := cli.Sessions.Get(cmd.Context(), userID)
			if err != nil {
				return err
			}
			defer cli.Sessions.End(userID)

			target, err := resolveWatchlist(sess.Watchlists, list)
			if err != nil {
				return err
			}

			result, err := cli.Importer.Import(cmd.Context(), sess.Watchlists, target.ID, string(text))
			printNotices(cmd.OutOrStdout(), result.Notices)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id owning the watchlist")
	cmd.Flags().StringVar(&list, "list", "", "watchlist id or name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("list")

	return cmd
}

// resolveWatchlist finds a list by id first, then by case-insensitive name
func resolveWatchlist(wl *controllers.WatchlistController, ref string) (models.Watchlist, error) {
	if w, ok := wl.Get(ref); ok {
		return w, nil
	}
	for _, w := range wl.List() {
		if strings.EqualFold(w.Name, ref) {
			return w, nil
		}
	}
	return models.Watchlist{}, fmt.Errorf("watchlist %q: %w", ref, models.ErrNotFound)
}

func printNotices(w io.Writer, notices []*models.Notice) {
	for _, n := range notices {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
	}
}
