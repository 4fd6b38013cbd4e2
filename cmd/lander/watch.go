package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/platform/tui"
	"github.com/vovakirdan/mars-lander/internal/storage"
)

var (
	flagFPS           int
	flagWatchMaxTurns int
)

var watchCmd = &cobra.Command{
	Use:   "watch <map>",
	Short: "Watch the autopilot fly a map in the terminal",
	Long: `Fly the autopilot over a map and draw every turn.

Controls:
  P/Space    - Pause
  N          - Single step while paused
  R          - Restart with the next seed
  +/-        - Faster / slower
  ?          - All keys
  Q/Esc      - Quit

Examples:
  lander watch descent
  lander watch wrong-side --fps 20 --preset fast`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagFPS, "fps", 10, "Turns shown per second")
	watchCmd.Flags().IntVar(&flagWatchMaxTurns, "max-turns", 1000, "Stop after this many turns (0 = no limit)")
}

func runWatch(_ *cobra.Command, args []string) {
	m := resolveMap(args[0])

	planner, err := loadPlanner()
	if err != nil {
		fatal("%v", err)
	}

	width, height := terminalSize()
	cfg := tui.WatchConfig{
		Map:     m,
		Planner: planner,
		Preset:  flagPreset,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     seed(),
		},
		MaxTurns: flagWatchMaxTurns,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	// The alt screen owns the terminal, so only warnings are logged.
	logger := newLogger("lander-watch")
	logger.SetLevel(log.WarnLevel)

	runErr := tui.RunWatch(cfg, store, logger)

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fatal("running watch: %v", runErr)
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	def := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return def.ScreenW, def.ScreenH
}
