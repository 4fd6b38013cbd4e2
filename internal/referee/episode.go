package referee

import (
	"context"
	"time"

	"github.com/vovakirdan/mars-lander/internal/lander"
)

// Agent chooses a command for each observed state.
type Agent interface {
	Tick(ctx context.Context, observed lander.Craft) lander.TickReport
}

// Episode summarizes a finished (or interrupted) descent.
type Episode struct {
	MapID    string
	Outcome  Outcome
	Turns    int
	FuelLeft int
	Final    lander.Craft
	Rollouts int
	Elapsed  time.Duration
}

// Play feeds the referee's state to agent and applies its commands until
// the episode ends, maxTurns is reached or ctx is cancelled. On
// cancellation the partial episode is returned with ctx's error.
func Play(ctx context.Context, ref *Referee, agent Agent, maxTurns int) (Episode, error) {
	start := time.Now()
	ep := Episode{MapID: ref.Map().ID}

	for !ref.Done() && (maxTurns <= 0 || ref.Turn() < maxTurns) {
		if err := ctx.Err(); err != nil {
			ep.fill(ref, start)
			return ep, err
		}
		report := agent.Tick(ctx, ref.Craft())
		ep.Rollouts += report.Rollouts
		ref.Step(report.Move)
	}

	ep.fill(ref, start)
	return ep, nil
}

func (ep *Episode) fill(ref *Referee, start time.Time) {
	ep.Outcome = ref.Outcome()
	ep.Turns = ref.Turn()
	ep.Final = ref.Craft()
	ep.FuelLeft = ep.Final.Fuel
	ep.Elapsed = time.Since(start)
}
