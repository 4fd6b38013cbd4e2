package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/maps"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all available maps",
	Long:  `Shows the built-in maps and any maps found in the --maps directory.`,
	Args:  cobra.NoArgs,
	Run:   runMaps,
}

type mapRow struct {
	id, name, source string
}

func runMaps(_ *cobra.Command, _ []string) {
	var rows []mapRow
	for _, info := range maps.List() {
		rows = append(rows, mapRow{info.ID, info.Name, "built-in"})
	}

	if flagMapsDir != "" {
		extra, err := maps.NewLoader(flagMapsDir).LoadAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read maps from %s: %v\n", flagMapsDir, err)
		}
		for _, m := range extra {
			if maps.Exists(m.ID) {
				continue
			}
			rows = append(rows, mapRow{m.ID, m.Name, m.FilePath})
		}
	}

	if len(rows) == 0 {
		fmt.Println("No maps available.")
		return
	}

	fmt.Println("Available maps:")
	fmt.Println()

	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, r := range rows {
		maxIDLen = max(maxIDLen, len(r.id))
		maxNameLen = max(maxNameLen, len(r.name))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Source")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxNameLen, "----", "------")
	for _, r := range rows {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, r.id, maxNameLen, r.name, r.source)
	}

	fmt.Println()
	fmt.Println("Run 'lander watch <id>' to watch a descent.")
}
