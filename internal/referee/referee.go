// Package referee is the local ground truth: it applies commands with the
// game's actuator limits, advances the craft and decides when the descent
// is over. The planner never sees it; it only receives observed states.
package referee

import (
	"fmt"

	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
	"github.com/vovakirdan/mars-lander/internal/maps"
)

// Outcome is the state of an episode.
type Outcome int

const (
	Flying Outcome = iota
	Landed
	Crashed
	Lost // Left the playfield
)

func (o Outcome) String() string {
	switch o {
	case Flying:
		return "flying"
	case Landed:
		return "landed"
	case Crashed:
		return "crashed"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// StepResult is returned by Step after each simulated second.
type StepResult struct {
	Turn    int
	Command lander.Move // The command actually applied after clamping
	Craft   lander.Craft
	Outcome Outcome
	Segment int // Terrain segment touched, -1 while flying or lost
}

// Referee simulates one map.
type Referee struct {
	m       maps.Map
	terrain *lander.Terrain
	trig    *lander.TrigTable

	craft   lander.Craft
	turn    int
	outcome Outcome
	segment int
	trail   []core.Point
}

// New creates a referee for m.
func New(m maps.Map, trig *lander.TrigTable) (*Referee, error) {
	terrain, err := m.Terrain()
	if err != nil {
		return nil, fmt.Errorf("referee: map %q: %w", m.ID, err)
	}
	r := &Referee{m: m, terrain: terrain, trig: trig}
	r.Reset()
	return r, nil
}

// Reset restores the map's initial state.
func (r *Referee) Reset() {
	r.craft = r.m.Start
	r.turn = 0
	r.outcome = Flying
	r.segment = -1
	r.trail = []core.Point{r.craft.Pos}
}

func (r *Referee) Map() maps.Map { return r.m }
func (r *Referee) Terrain() *lander.Terrain { return r.terrain }
func (r *Referee) Craft() lander.Craft { return r.craft }
func (r *Referee) Turn() int { return r.turn }
func (r *Referee) Outcome() Outcome { return r.outcome }
func (r *Referee) Done() bool { return r.outcome != Flying }
func (r *Referee) Trig() *lander.TrigTable { return r.trig }

// Step applies cmd for one second. Once the episode is over it returns the
// final state unchanged.
func (r *Referee) Step(cmd lander.Move) StepResult {
	if r.Done() {
		return r.result(lander.Move{Angle: r.craft.Angle, Thrust: r.craft.Thrust})
	}

	cmd = r.craft.Clamp(cmd)
	next := r.trig.Advance(r.craft.With(cmd))
	r.turn++

	if seg, hit := r.terrain.Collide(r.craft.Pos, next.Pos); hit {
		r.segment = seg
		r.outcome = Crashed
		if r.terrain.Landed(next) {
			r.outcome = Landed
		}
	} else if !lander.InBounds(next.Pos) {
		r.outcome = Lost
	}

	r.craft = next
	r.trail = append(r.trail, next.Pos)
	return r.result(cmd)
}

func (r *Referee) result(cmd lander.Move) StepResult {
	return StepResult{
		Turn:    r.turn,
		Command: cmd,
		Craft:   r.craft,
		Outcome: r.outcome,
		Segment: r.segment,
	}
}
