// lander is a Monte-Carlo autopilot for the Mars Lander descent puzzle.
//
// Usage:
//
//	lander run               - Play the contest protocol on stdin/stdout
//	lander sim <map>         - Fly a map headless and print the outcome
//	lander watch <map>       - Watch the autopilot fly a map in the terminal
//	lander maps              - List available maps
//	lander history <map>     - Show recorded runs for a map
//	lander board             - Browse recorded runs interactively
//	lander serve             - Start SSH server for remote viewing
//
// Global flags:
//
//	--config <path>     - Planner config YAML
//	--preset <name>     - Search budget preset: fast, normal, thorough
//	--seed <value>      - RNG seed for reproducible flights
//	--db <path>         - Runs database (default: ~/.lander/runs.db)
//	--maps <dir>        - Directory with extra YAML maps
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/config"
	"github.com/vovakirdan/mars-lander/internal/maps"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagDBPath   string
	flagMapsDir  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lander",
	Short: "Mars Lander autopilot",
	Long: `lander flies a craft onto the flat landing zone of a 2D Martian
surface by searching random command sequences every turn.

Available commands:
  run      - Contest agent on stdin/stdout
  sim      - Headless flight over a map
  watch    - Live flight in the terminal
  maps     - Show all available maps
  history  - Recorded runs for a map
  board    - Interactive run board
  serve    - SSH server for remote viewing

Examples:
  lander run < turns.txt
  lander sim descent --seed 42
  lander watch deep-canyon --preset thorough
  lander history descent
  lander serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to planner config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Search budget preset: fast, normal, thorough")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lander/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "", "Directory with extra YAML maps")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger returns a stderr logger at the --log-level threshold.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadPlanner loads the planner config and applies --preset.
func loadPlanner() (config.PlannerConfig, error) {
	cfg, err := config.LoadPlanner(flagConfig)
	if err != nil {
		return cfg, err
	}
	switch preset := config.Preset(flagPreset); preset {
	case "":
	case config.PresetFast, config.PresetNormal, config.PresetThorough:
		config.ApplyPreset(&cfg, preset)
	default:
		return cfg, fmt.Errorf("unknown preset %q (want fast, normal or thorough)", flagPreset)
	}
	return cfg, cfg.Validate()
}

// seed returns --seed, or a time-based seed when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// resolveMap finds a map by ID or exits with a hint.
func resolveMap(id string) maps.Map {
	m, err := maps.Resolve(id, flagMapsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'lander maps' to see available maps.")
		os.Exit(1)
	}
	return m
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
