package main

import (
	"fmt"
	"os"

	"github.com/amaumene/cinelist/internal/app"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinelist",
		Short:         "Movie and TV catalog with personal watchlists",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newURLCmd(),
		newSearchCmd(),
		newImportCmd(),
	)
	return root
}
