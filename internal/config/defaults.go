package config

import (
	_ "embed"
)

//go:embed defaults/planner.yaml
var defaultPlannerYAML []byte

// DefaultPlannerConfig returns the hardcoded planner configuration.
// It mirrors defaults/planner.yaml and is used if the embedded file is unreadable.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		Budget: BudgetConfig{
			TickMS:      95,
			FirstTickMS: 950,
			MaxRollouts: 0,
		},
		Search: SearchConfig{
			StepCap:   600,
			WarmStart: true,
		},
		Policy: DefaultPolicyWeights(),
	}
}

// DefaultPolicyWeights returns the transition weights favoring a level
// attitude and high thrust.
func DefaultPolicyWeights() PolicyWeights {
	return PolicyWeights{
		Angle: [][3]float64{
			{1, 1, 1},
			{1, 1.5, 2.25},
			{1, 2, 4},
			{1, 3, 9},
			{1, 4, 16},
			{1, 5, 25},
			{0, 1, 19},
		},
		Thrust: [][3]float64{
			{0, 1, 4},
			{1, 2.5, 6.25},
			{1, 2, 4},
			{1, 1.8, 3.24},
			{1, 3, 0},
		},
	}
}

// DefaultYAML returns the embedded default planner YAML.
func DefaultYAML() []byte {
	return defaultPlannerYAML
}
