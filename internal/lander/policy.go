package lander

import (
	"math/rand"

	"github.com/vovakirdan/mars-lander/internal/config"
	"github.com/vovakirdan/mars-lander/internal/core"
)

// Policy chooses the next command for a craft.
type Policy interface {
	Next(c Craft) Move
}

// RandomPolicy samples one slew step per actuator from weighted tables.
// It biases the angle back toward 0 and the thrust toward full power.
type RandomPolicy struct {
	rng     *rand.Rand
	weights config.PolicyWeights
}

// NewRandomPolicy creates a policy drawing from rng.
// The weights are expected to have passed config validation.
func NewRandomPolicy(rng *rand.Rand, weights config.PolicyWeights) *RandomPolicy {
	return &RandomPolicy{rng: rng, weights: weights}
}

// Next returns a move one slew step (or zero) away from the current command.
func (p *RandomPolicy) Next(c Craft) Move {
	return Move{Angle: p.nextAngle(c.Angle), Thrust: p.nextThrust(c)}
}

func (p *RandomPolicy) nextAngle(angle int) int {
	row := p.weights.Angle[core.Abs(angle)/AngleStep]

	// Columns are away / hold / toward; at 0 they are -15 / hold / +15.
	away := -AngleStep
	if angle > 0 {
		away = AngleStep
	}
	deltas := [3]int{away, 0, -away}
	if angle == 0 {
		deltas = [3]int{-AngleStep, 0, AngleStep}
	}

	var legal [3]bool
	for i, d := range deltas {
		next := angle + d
		legal[i] = next >= -MaxAngle && next <= MaxAngle
	}
	return angle + deltas[p.pick(row, legal)]
}

func (p *RandomPolicy) nextThrust(c Craft) int {
	if c.Fuel <= 0 {
		return core.Max(c.Thrust-1, 0)
	}
	row := p.weights.Thrust[c.Thrust]
	legal := [3]bool{c.Thrust > 0, true, c.Thrust < MaxThrust}
	return c.Thrust + p.pick(row, legal) - 1
}

// pick draws a column index proportionally to its weight among legal columns.
// It holds (index 1) when no legal column has weight.
func (p *RandomPolicy) pick(w [3]float64, legal [3]bool) int {
	total := 0.0
	for i, v := range w {
		if legal[i] {
			total += v
		}
	}
	if total <= 0 {
		return 1
	}

	r := p.rng.Float64() * total
	chosen := 1
	for i, v := range w {
		if !legal[i] || v <= 0 {
			continue
		}
		chosen = i
		if r < v {
			break
		}
		r -= v
	}
	return chosen
}
