// Package config provides YAML-based planner configuration loading and
// search-budget presets for the lander agent.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Policy table dimensions.
const (
	AngleRows  = 7 // |angle| / 15 for 0..90
	ThrustRows = 5 // thrust levels 0..4
)

// PlannerConfig contains all tunable parameters of the rollout planner.
// Physics is not configurable; only the search budget and the random policy.
type PlannerConfig struct {
	Budget BudgetConfig  `yaml:"budget"`
	Search SearchConfig  `yaml:"search"`
	Policy PolicyWeights `yaml:"policy"`
}

// BudgetConfig bounds how much work a single tick may do.
type BudgetConfig struct {
	TickMS      int `yaml:"tick_ms"`       // Wall-clock budget for every tick but the first
	FirstTickMS int `yaml:"first_tick_ms"` // The first turn allows a longer answer
	MaxRollouts int `yaml:"max_rollouts"`  // 0 = limited by time only
}

// SearchConfig defines rollout behavior.
type SearchConfig struct {
	StepCap   int  `yaml:"step_cap"`   // Hard ceiling on simulated seconds per rollout
	WarmStart bool `yaml:"warm_start"` // Replay last tick's best plan first
}

// PolicyWeights holds the discrete transition weights of the random policy.
//
// Angle rows are indexed by |angle|/15. Columns are {away from 0, hold,
// toward 0}; on row 0 the outer columns mean {-15, +15}. Thrust rows are
// indexed by the thrust level with columns {down, hold, up}. Weights for
// moves that would leave the legal range are ignored.
type PolicyWeights struct {
	Angle  [][3]float64 `yaml:"angle"`
	Thrust [][3]float64 `yaml:"thrust"`
}

// TickBudget returns the per-tick wall-clock budget.
func (c PlannerConfig) TickBudget() time.Duration {
	return time.Duration(c.Budget.TickMS) * time.Millisecond
}

// FirstTickBudget returns the wall-clock budget of the first tick.
func (c PlannerConfig) FirstTickBudget() time.Duration {
	return time.Duration(c.Budget.FirstTickMS) * time.Millisecond
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid planner config")

// Validate checks budgets and policy tables.
func (c PlannerConfig) Validate() error {
	if c.Budget.TickMS <= 0 {
		return fmt.Errorf("%w: budget.tick_ms must be positive, got %d", ErrInvalidConfig, c.Budget.TickMS)
	}
	if c.Budget.FirstTickMS <= 0 {
		return fmt.Errorf("%w: budget.first_tick_ms must be positive, got %d", ErrInvalidConfig, c.Budget.FirstTickMS)
	}
	if c.Budget.MaxRollouts < 0 {
		return fmt.Errorf("%w: budget.max_rollouts must not be negative", ErrInvalidConfig)
	}
	if c.Search.StepCap <= 0 {
		return fmt.Errorf("%w: search.step_cap must be positive, got %d", ErrInvalidConfig, c.Search.StepCap)
	}
	return c.Policy.Validate()
}

// Validate checks table shapes, signs, and that every state has a legal move.
func (w PolicyWeights) Validate() error {
	if len(w.Angle) != AngleRows {
		return fmt.Errorf("%w: policy.angle needs %d rows, got %d", ErrInvalidConfig, AngleRows, len(w.Angle))
	}
	if len(w.Thrust) != ThrustRows {
		return fmt.Errorf("%w: policy.thrust needs %d rows, got %d", ErrInvalidConfig, ThrustRows, len(w.Thrust))
	}

	for i, row := range w.Angle {
		if err := checkRow("angle", i, row, i == AngleRows-1, false); err != nil {
			return err
		}
	}
	for i, row := range w.Thrust {
		if err := checkRow("thrust", i, row, i == 0, i == ThrustRows-1); err != nil {
			return err
		}
	}
	return nil
}

// checkRow validates one row. noFirst/noLast mark columns that are illegal
// for that row (e.g. "away" at ±90, "down" at thrust 0).
func checkRow(table string, i int, row [3]float64, noFirst, noLast bool) error {
	total := 0.0
	for col, v := range row {
		if v < 0 {
			return fmt.Errorf("%w: policy.%s[%d][%d] is negative", ErrInvalidConfig, table, i, col)
		}
		if (col == 0 && noFirst) || (col == 2 && noLast) {
			continue
		}
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("%w: policy.%s[%d] has no legal positive weight", ErrInvalidConfig, table, i)
	}
	return nil
}

// Preset represents a named search budget.
type Preset string

const (
	PresetFast     Preset = "fast"
	PresetNormal   Preset = "normal"
	PresetThorough Preset = "thorough"
)

// ApplyPreset modifies the budget based on a preset.
// Unknown or empty presets leave the config untouched.
func ApplyPreset(cfg *PlannerConfig, preset Preset) {
	switch preset {
	case PresetFast:
		cfg.Budget.TickMS = 40
		cfg.Budget.FirstTickMS = 400
	case PresetNormal:
		cfg.Budget.TickMS = 95
		cfg.Budget.FirstTickMS = 950
	case PresetThorough:
		// Offline only: exceeds the contest's response limit.
		cfg.Budget.TickMS = 400
		cfg.Budget.FirstTickMS = 2000
	}
}
