package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/platform/tui"
	"github.com/vovakirdan/mars-lander/internal/storage"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse recorded runs interactively",
	Long: `Open the run board: the best recorded runs per built-in map with
landing statistics. Use tab / shift+tab to switch maps.`,
	Args: cobra.NoArgs,
	Run:  runBoard,
}

func runBoard(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening runs database: %v", err)
	}
	defer store.Close()

	width, height := terminalSize()
	if err := tui.RunBoard(store, width, height); err != nil {
		store.Close()
		fatal("running board: %v", err)
	}
}
