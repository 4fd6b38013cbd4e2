package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/config"
	"github.com/vovakirdan/mars-lander/internal/lander"
	"github.com/vovakirdan/mars-lander/internal/protocol"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the contest protocol on stdin/stdout",
	Long: `Read the surface and then one craft state per turn from stdin, and
answer each turn with "angle thrust" on stdout. Diagnostics go to stderr.

The first turn gets the long first-turn budget; later turns use the
per-turn budget from the planner config or --preset.

Examples:
  lander run
  lander run --preset fast --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runAgent,
}

func runAgent(cmd *cobra.Command, _ []string) {
	logger := newLogger("lander")

	planner, err := loadPlanner()
	if err != nil {
		fatal("%v", err)
	}

	s := seed()
	logger.Debug("agent starting", "seed", s, "tick_ms", planner.Budget.TickMS, "first_tick_ms", planner.Budget.FirstTickMS)

	if err := agentLoop(cmd.Context(), os.Stdin, os.Stdout, planner, s, logger); err != nil {
		logger.Error("agent stopped", "error", err)
		os.Exit(1)
	}
}

// agentLoop answers turns from in until it reaches EOF.
func agentLoop(ctx context.Context, in io.Reader, out io.Writer, planner config.PlannerConfig, seed int64, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := protocol.NewReader(in)

	surface, err := r.ReadSurface()
	if err != nil {
		return fmt.Errorf("reading surface: %w", err)
	}
	terrain, err := lander.NewTerrain(surface)
	if err != nil {
		return err
	}
	logger.Debug("surface", "points", len(surface), "pad_left", terrain.PadLeft(), "pad_right", terrain.PadRight(), "pad_y", terrain.PadHeight())

	policy := lander.NewRandomPolicy(rand.New(rand.NewSource(seed)), planner.Policy)
	engine := lander.NewEngine(terrain, lander.NewTrigTable(), policy, planner.Search.StepCap)
	ctrl := lander.NewController(engine, planner, logger)

	w := bufio.NewWriter(out)
	for {
		observed, err := r.ReadTurn()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading turn: %w", err)
		}

		report := ctrl.Tick(ctx, observed)
		if err := protocol.WriteMove(w, report.Move); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}
