package lander

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mars-lander/internal/config"
)

// TickReport describes the search performed for one tick.
type TickReport struct {
	Tick     int
	Move     Move
	Rollouts int
	Best     Result
	Elapsed  time.Duration
}

// Controller turns observed states into commands, one tick at a time.
// It is not safe for concurrent use.
type Controller struct {
	engine *Engine
	cfg    config.PlannerConfig
	logger *log.Logger

	seed  []Move
	ticks int
}

// NewController creates a controller. A nil logger discards diagnostics.
func NewController(engine *Engine, cfg config.PlannerConfig, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{engine: engine, cfg: cfg, logger: logger}
}

// Seed primes the next tick's first rollout with a plan.
func (c *Controller) Seed(moves []Move) {
	c.seed = append([]Move(nil), moves...)
}

// Reset forgets the carried plan and the tick count.
func (c *Controller) Reset() {
	c.seed = nil
	c.ticks = 0
}

// Tick searches from the observed state until the tick's deadline, the
// rollout cap or ctx cancellation, and returns the first move of the best
// plan found. At least one rollout always runs.
func (c *Controller) Tick(ctx context.Context, observed Craft) TickReport {
	start := time.Now()
	budget := c.cfg.TickBudget()
	if c.ticks == 0 {
		budget = c.cfg.FirstTickBudget()
	}
	deadline := start.Add(budget)
	maxRollouts := c.cfg.Budget.MaxRollouts
	warm := c.cfg.Search.WarmStart && len(c.seed) > 0

	var best Result
	rollouts := 0
	for {
		if rollouts > 0 {
			if ctx.Err() != nil || (maxRollouts > 0 && rollouts >= maxRollouts) || !time.Now().Before(deadline) {
				break
			}
		}

		var r Result
		if rollouts == 0 && warm {
			r = c.engine.Rollout(observed, c.seed)
		} else {
			r = c.engine.Rollout(observed, nil)
		}
		rollouts++
		if rollouts == 1 {
			best = r
			continue
		}
		best = Best(best, r)
	}

	move := observed.Clamp(Move{Angle: observed.Angle, Thrust: observed.Thrust})
	c.seed = nil
	if len(best.Moves) > 0 {
		move = best.Moves[0]
		c.seed = append([]Move(nil), best.Moves[1:]...)
	}
	c.ticks++

	report := TickReport{
		Tick:     c.ticks,
		Move:     move,
		Rollouts: rollouts,
		Best:     best,
		Elapsed:  time.Since(start),
	}
	c.logger.Debug("tick",
		"n", report.Tick,
		"rollouts", report.Rollouts,
		"score", best.Score,
		"cause", best.Cause,
		"plan", len(best.Moves),
		"elapsed", report.Elapsed,
		"move", move,
	)
	return report
}
