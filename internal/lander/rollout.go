package lander

// Result is one simulated episode: the commands issued, the final state
// and its score.
type Result struct {
	Moves   []Move
	Final   Craft
	Cause   Cause
	Segment int
	Score   float64
}

// Engine runs rollouts against a fixed terrain.
type Engine struct {
	terrain *Terrain
	trig    *TrigTable
	policy  Policy
	stepCap int
}

// NewEngine creates a rollout engine. stepCap bounds the simulated seconds
// per rollout so a single rollout always finishes.
func NewEngine(terrain *Terrain, trig *TrigTable, policy Policy, stepCap int) *Engine {
	if stepCap <= 0 {
		stepCap = 1
	}
	return &Engine{terrain: terrain, trig: trig, policy: policy, stepCap: stepCap}
}

// Rollout replays seed from start, then continues with the policy until
// the craft touches terrain, leaves the playfield or hits the step cap.
// Seeded moves are clamped to what the craft can reach.
func (e *Engine) Rollout(start Craft, seed []Move) Result {
	return e.run(start, seed, true)
}

// Replay simulates exactly moves with no random continuation. Running out
// of moves before a terminal event ends the rollout as step-capped.
func (e *Engine) Replay(start Craft, moves []Move) Result {
	return e.run(start, moves, false)
}

func (e *Engine) run(start Craft, seed []Move, explore bool) Result {
	c := start
	moves := make([]Move, 0, len(seed)+64)

	for step := 0; step < e.stepCap; step++ {
		var want Move
		switch {
		case step < len(seed):
			want = seed[step]
		case explore:
			want = e.policy.Next(c)
		default:
			return e.finish(moves, c, CauseStepCap, -1)
		}

		cmd := c.Clamp(want)
		next := e.trig.Advance(c.With(cmd))
		moves = append(moves, cmd)

		if seg, hit := e.terrain.Collide(c.Pos, next.Pos); hit {
			return e.finish(moves, next, CauseCollision, seg)
		}
		if !InBounds(next.Pos) {
			return e.finish(moves, next, CauseOutOfBounds, -1)
		}
		c = next
	}
	return e.finish(moves, c, CauseStepCap, -1)
}

func (e *Engine) finish(moves []Move, c Craft, cause Cause, seg int) Result {
	if cause == CauseStepCap {
		seg = e.terrain.SegmentBelow(c.Pos.X)
	}
	return Result{
		Moves:   moves,
		Final:   c,
		Cause:   cause,
		Segment: seg,
		Score:   e.terrain.Score(Terminal{Craft: c, Cause: cause, Segment: seg}),
	}
}

// Better reports whether a strictly outscores b.
func Better(a, b Result) bool {
	return a.Score > b.Score
}

// Best returns the highest-scoring result; the earliest wins ties.
func Best(results ...Result) Result {
	var best Result
	for i, r := range results {
		if i == 0 || Better(r, best) {
			best = r
		}
	}
	return best
}
