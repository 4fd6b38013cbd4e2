package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/lander"
	"github.com/vovakirdan/mars-lander/internal/referee"
	"github.com/vovakirdan/mars-lander/internal/storage"
)

var (
	flagMaxTurns int
	flagNoSave   bool
)

var simCmd = &cobra.Command{
	Use:   "sim <map>",
	Short: "Fly a map headless and print the outcome",
	Long: `Fly the autopilot over a map with the local referee and print a
summary. The run is recorded in the runs database unless --no-save is set.

Examples:
  lander sim descent
  lander sim deep-canyon --seed 7 --preset thorough
  lander sim my-map --maps ./maps --max-turns 300`,
	Args: cobra.ExactArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagMaxTurns, "max-turns", 1000, "Stop after this many turns (0 = no limit)")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runSim(_ *cobra.Command, args []string) {
	m := resolveMap(args[0])
	logger := newLogger("lander-sim")

	planner, err := loadPlanner()
	if err != nil {
		fatal("%v", err)
	}

	ref, err := referee.New(m, lander.NewTrigTable())
	if err != nil {
		fatal("%v", err)
	}

	s := seed()
	policy := lander.NewRandomPolicy(rand.New(rand.NewSource(s)), planner.Policy)
	engine := lander.NewEngine(ref.Terrain(), ref.Trig(), policy, planner.Search.StepCap)
	ctrl := lander.NewController(engine, planner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ep, playErr := referee.Play(ctx, ref, ctrl, flagMaxTurns)
	if playErr != nil {
		logger.Warn("flight interrupted", "error", playErr)
	}

	fmt.Printf("Map:      %s (%s)\n", m.Name, m.ID)
	fmt.Printf("Outcome:  %s\n", ep.Outcome)
	fmt.Printf("Turns:    %d\n", ep.Turns)
	fmt.Printf("Fuel:     %d\n", ep.FuelLeft)
	fmt.Printf("Final:    %s\n", ep.Final)
	fmt.Printf("Rollouts: %d\n", ep.Rollouts)
	fmt.Printf("Elapsed:  %s\n", ep.Elapsed.Round(time.Millisecond))
	fmt.Printf("Seed:     %d\n", s)

	if flagNoSave || playErr != nil {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveRun(storage.RunEntry{
		MapID:      m.ID,
		Outcome:    ep.Outcome.String(),
		Turns:      ep.Turns,
		FuelLeft:   ep.FuelLeft,
		Rollouts:   ep.Rollouts,
		Seed:       s,
		Preset:     flagPreset,
		DurationMS: ep.Elapsed.Milliseconds(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
	}
}
