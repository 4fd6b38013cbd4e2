package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/storage"
)

var (
	flagLimit int
	flagClear bool
	flagRun   int64
)

var historyCmd = &cobra.Command{
	Use:   "history [map]",
	Short: "Show recorded runs",
	Long: `Display the best recorded runs for the specified map: landings first,
then by fuel left, then by fewest turns. Without a map, the most recent
runs across all maps are listed.

Examples:
  lander history
  lander history descent
  lander history descent --limit 25
  lander history descent --run 12
  lander history descent --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded runs for the map")
	historyCmd.Flags().Int64Var(&flagRun, "run", 0, "Show the details of a single run by ID")
}

func runHistory(_ *cobra.Command, args []string) {
	if len(args) == 0 {
		runRecent()
		return
	}
	m := resolveMap(args[0])

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening runs database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(m.ID); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Cleared runs for %s.\n", m.ID)
		return
	}

	if flagRun > 0 {
		r, err := store.GetRun(flagRun)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && r.MapID != m.ID) {
			store.Close()
			fatal("no run #%d recorded for %s", flagRun, m.ID)
		}
		if err != nil {
			store.Close()
			fatal("retrieving run: %v", err)
		}
		printRun(os.Stdout, r)
		return
	}

	runs, err := store.TopRuns(m.ID, flagLimit)
	if err != nil {
		store.Close()
		fatal("retrieving runs: %v", err)
	}

	fmt.Printf("Runs - %s\n", m.Name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'lander sim %s' to record the first one.\n", m.ID)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-8s  %-5s  %-5s  %-20s  %s\n", "Rank", "Run", "Outcome", "Fuel", "Turns", "Seed", "Date")
	fmt.Printf("  %-4s  %-6s  %-8s  %-5s  %-5s  %-20s  %s\n", "----", "---", "-------", "----", "-----", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-6d  %-8s  %-5d  %-5d  %-20d  %s\n",
			i+1, r.ID, r.Outcome, r.FuelLeft, r.Turns, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetMapStats(m.ID)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Landed %d of %d (%.0f%%)", stats.Landings, stats.Runs, stats.SuccessRate()*100)
	if stats.Landings > 0 {
		fmt.Printf(", best fuel %d", stats.BestFuel)
	}
	fmt.Printf(", avg turns %.1f\n", stats.AvgTurns)
}

// runRecent lists the latest runs over every map, or one run with --run.
func runRecent() {
	if flagClear {
		fatal("--clear needs a map")
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening runs database: %v", err)
	}
	defer store.Close()

	if flagRun > 0 {
		r, err := store.GetRun(flagRun)
		if err != nil {
			store.Close()
			fatal("run #%d: %v", flagRun, err)
		}
		printRun(os.Stdout, r)
		return
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		store.Close()
		fatal("retrieving runs: %v", err)
	}
	printRecent(os.Stdout, runs)
}

// printRecent writes one line per run, newest first.
func printRecent(w io.Writer, runs []storage.RunEntry) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	fmt.Fprintf(w, "  %-6s  %-16s  %-8s  %-5s  %-5s  %s\n", "Run", "Map", "Outcome", "Fuel", "Turns", "Date")
	fmt.Fprintf(w, "  %-6s  %-16s  %-8s  %-5s  %-5s  %s\n", "---", "---", "-------", "----", "-----", "----")
	for _, r := range runs {
		fmt.Fprintf(w, "  %-6d  %-16s  %-8s  %-5d  %-5d  %s\n",
			r.ID, r.MapID, r.Outcome, r.FuelLeft, r.Turns, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// printRun writes the full record of one run.
func printRun(w io.Writer, r storage.RunEntry) {
	fmt.Fprintf(w, "Run #%d - %s\n\n", r.ID, r.MapID)
	fmt.Fprintf(w, "  Outcome   %s\n", r.Outcome)
	fmt.Fprintf(w, "  Turns     %d\n", r.Turns)
	fmt.Fprintf(w, "  Fuel left %d\n", r.FuelLeft)
	fmt.Fprintf(w, "  Rollouts  %d\n", r.Rollouts)
	fmt.Fprintf(w, "  Seed      %d\n", r.Seed)
	fmt.Fprintf(w, "  Preset    %s\n", r.Preset)
	fmt.Fprintf(w, "  Duration  %s\n", time.Duration(r.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "  Recorded  %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
}
