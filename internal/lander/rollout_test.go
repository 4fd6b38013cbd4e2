package lander

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/mars-lander/internal/config"
	"github.com/vovakirdan/mars-lander/internal/core"
)

// descentStart hovers 1900 units above the pad, at rest, engine off.
func descentStart() Craft {
	return Craft{Pos: core.Pt(2200, 2000), Fuel: 500}
}

// descentPlan falls freely, then ramps to full thrust and holds it upright.
func descentPlan() []Move {
	var plan []Move
	for i := 0; i < 9; i++ {
		plan = append(plan, Move{0, 0})
	}
	plan = append(plan, Move{0, 1}, Move{0, 2}, Move{0, 3})
	for i := 0; i < 200; i++ {
		plan = append(plan, Move{0, 4})
	}
	return plan
}

func newEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	policy := NewRandomPolicy(rand.New(rand.NewSource(seed)), config.DefaultPolicyWeights())
	return NewEngine(vTerrain(t), NewTrigTable(), policy, 600)
}

func assertSlew(t *testing.T, from Craft, moves []Move) {
	t.Helper()
	prev := Move{Angle: from.Angle, Thrust: from.Thrust}
	for i, m := range moves {
		if core.Abs(m.Angle-prev.Angle) > AngleStep || core.Abs(m.Thrust-prev.Thrust) > 1 {
			t.Fatalf("move %d: %v -> %v exceeds slew limits", i, prev, m)
		}
		if m.Angle%AngleStep != 0 || m.Angle < -MaxAngle || m.Angle > MaxAngle || m.Thrust < 0 || m.Thrust > MaxThrust {
			t.Fatalf("move %d: %v out of range", i, m)
		}
		prev = m
	}
}

func TestRandomPolicyLimits(t *testing.T) {
	p := NewRandomPolicy(rand.New(rand.NewSource(1)), config.DefaultPolicyWeights())

	for angle := -MaxAngle; angle <= MaxAngle; angle += AngleStep {
		for thrust := 0; thrust <= MaxThrust; thrust++ {
			c := Craft{Fuel: 100, Angle: angle, Thrust: thrust}
			for i := 0; i < 200; i++ {
				m := p.Next(c)
				assertSlew(t, c, []Move{m})
				if thrust == MaxThrust && m.Thrust > thrust {
					t.Fatalf("thrust rose above max")
				}
			}
		}
	}
}

func TestRandomPolicyEmptyTank(t *testing.T) {
	p := NewRandomPolicy(rand.New(rand.NewSource(2)), config.DefaultPolicyWeights())
	for thrust := 0; thrust <= MaxThrust; thrust++ {
		c := Craft{Fuel: 0, Thrust: thrust}
		expected := core.Max(thrust-1, 0)
		for i := 0; i < 100; i++ {
			if m := p.Next(c); m.Thrust != expected {
				t.Fatalf("thrust %d -> %d with empty tank, expected %d", thrust, m.Thrust, expected)
			}
		}
	}
}

func TestEmptyTankWindsDown(t *testing.T) {
	e := newEngine(t, 1)
	start := Craft{Pos: core.Pt(3500, 2500), Fuel: 8, Thrust: 4}
	r := e.Replay(start, []Move{{0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}, {0, 4}})

	assertSlew(t, start, r.Moves)
	thrusts := []int{4, 4, 3, 2, 1, 0}
	for i, want := range thrusts {
		if r.Moves[i].Thrust != want {
			t.Errorf("move %d thrust = %d, expected %d", i, r.Moves[i].Thrust, want)
		}
	}
	if r.Final.Fuel != 0 {
		t.Errorf("final fuel = %d, expected 0", r.Final.Fuel)
	}
}

func TestRandomPolicyBias(t *testing.T) {
	p := NewRandomPolicy(rand.New(rand.NewSource(3)), config.DefaultPolicyWeights())

	const n = 10000
	toward, up := 0, 0
	for i := 0; i < n; i++ {
		if p.Next(Craft{Fuel: 100, Angle: 75, Thrust: 2}).Angle == 60 {
			toward++
		}
		if p.Next(Craft{Fuel: 100, Thrust: 0}).Thrust == 1 {
			up++
		}
	}
	// 25/31 toward zero at 75 degrees, 4/5 up from idle.
	if toward < n*7/10 {
		t.Errorf("angle returned toward 0 only %d/%d times", toward, n)
	}
	if up < n*7/10 {
		t.Errorf("thrust increased only %d/%d times", up, n)
	}
}

func TestScriptedDescentLands(t *testing.T) {
	tests := []struct {
		name    string
		terrain func(*testing.T) *Terrain
	}{
		{"valley", vTerrain},
		{"level field", flatTerrain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			policy := NewRandomPolicy(rand.New(rand.NewSource(1)), config.DefaultPolicyWeights())
			e := NewEngine(tc.terrain(t), NewTrigTable(), policy, 600)
			r := e.Replay(descentStart(), descentPlan())

			if r.Cause != CauseCollision || r.Score != SuccessScore {
				t.Fatalf("plan ended %v with score %v at %v", r.Cause, r.Score, r.Final)
			}
			if len(r.Moves) != 66 {
				t.Errorf("landed after %d steps, expected 66", len(r.Moves))
			}
			if r.Final.Fuel != 278 || r.Final.Pos != core.Pt(2200, 80) {
				t.Errorf("final state %v", r.Final)
			}
			if r.Segment != 1 {
				t.Errorf("touched segment %d, expected pad", r.Segment)
			}
		})
	}
}

func TestRolloutInvariants(t *testing.T) {
	e := newEngine(t, 42)
	trig := NewTrigTable()
	starts := []Craft{
		descentStart(),
		{Pos: core.Pt(6500, 2800), HSpeed: -50, Fuel: 550, Angle: 30, Thrust: 2},
		{Pos: core.Pt(500, 2500), HSpeed: 100, VSpeed: -20, Fuel: 40, Angle: -90, Thrust: 4},
	}

	for _, start := range starts {
		for i := 0; i < 50; i++ {
			r := e.Rollout(start, nil)
			if len(r.Moves) == 0 || len(r.Moves) > 600 {
				t.Fatalf("rollout produced %d moves", len(r.Moves))
			}
			assertSlew(t, start, r.Moves)

			// Walk the moves again to check fuel and reproduce the final state.
			c := start
			for j, m := range r.Moves {
				next := trig.Advance(c.With(m))
				if next.Fuel > c.Fuel {
					t.Fatalf("fuel rose at step %d", j)
				}
				if c.Fuel <= 0 {
					if m.Thrust != core.Max(c.Thrust-1, 0) {
						t.Fatalf("thrust %d -> %d with empty tank at step %d", c.Thrust, m.Thrust, j)
					}
					if next.Fuel != 0 || next.HSpeed != c.HSpeed || next.VSpeed != c.VSpeed-gravity {
						t.Fatalf("empty tank still produced thrust at step %d: %v -> %v", j, c, next)
					}
				}
				c = next
			}
			if c != r.Final {
				t.Fatalf("replayed final %v, rollout final %v", c, r.Final)
			}
			if r.Score != e.terrain.Score(Terminal{Craft: r.Final, Cause: r.Cause, Segment: r.Segment}) {
				t.Fatalf("score mismatch")
			}
		}
	}
}

func TestReplayTermination(t *testing.T) {
	e := newEngine(t, 1)

	t.Run("moves run out", func(t *testing.T) {
		r := e.Replay(descentStart(), []Move{{0, 0}, {0, 0}, {0, 0}})
		if r.Cause != CauseStepCap || len(r.Moves) != 3 || r.Segment != 1 {
			t.Errorf("got cause %v after %d moves on segment %d", r.Cause, len(r.Moves), r.Segment)
		}
	})

	t.Run("leaves playfield", func(t *testing.T) {
		start := Craft{Pos: core.Pt(5, 2000), HSpeed: -50, Fuel: 100}
		r := e.Replay(start, []Move{{0, 0}})
		if r.Cause != CauseOutOfBounds || r.Segment != -1 || r.Final.Pos.X != -45 {
			t.Errorf("got cause %v segment %d at %v", r.Cause, r.Segment, r.Final.Pos)
		}
	})

	t.Run("step cap", func(t *testing.T) {
		capped := NewEngine(e.terrain, e.trig, NewRandomPolicy(rand.New(rand.NewSource(1)), config.DefaultPolicyWeights()), 5)
		r := capped.Rollout(descentStart(), nil)
		if r.Cause != CauseStepCap || len(r.Moves) != 5 {
			t.Errorf("got cause %v after %d moves", r.Cause, len(r.Moves))
		}
	})

	t.Run("seed is clamped", func(t *testing.T) {
		r := e.Replay(descentStart(), []Move{{90, 4}})
		if r.Moves[0] != (Move{15, 1}) {
			t.Errorf("first move %v, expected clamped 15 1", r.Moves[0])
		}
	})
}

func TestWarmStartMatchesReplay(t *testing.T) {
	e := newEngine(t, 9)
	start := descentStart()
	plan := descentPlan()

	// Advance a few ticks along the plan, as the controller would.
	trig := e.trig
	for _, m := range plan[:5] {
		start = trig.Advance(start.With(m))
	}
	seed := plan[5:]

	warm := e.Rollout(start, seed)
	direct := e.Replay(start, seed)
	if !reflect.DeepEqual(warm, direct) {
		t.Errorf("warm-start rollout %v/%v differs from replay %v/%v", warm.Cause, warm.Score, direct.Cause, direct.Score)
	}
	if warm.Score != SuccessScore {
		t.Errorf("warm-start score = %v", warm.Score)
	}
}

func TestBest(t *testing.T) {
	a := Result{Score: 5, Segment: 1}
	b := Result{Score: 5, Segment: 2}
	c := Result{Score: 9, Segment: 3}

	if Better(a, b) || Better(b, a) {
		t.Error("equal scores must not be strictly better")
	}
	if !Better(c, a) {
		t.Error("higher score must be better")
	}
	if got := Best(a, b); got.Segment != 1 {
		t.Errorf("tie kept segment %d, expected first", got.Segment)
	}
	if got := Best(a, c, b); got.Segment != 3 {
		t.Errorf("Best picked segment %d, expected 3", got.Segment)
	}
	if got := Best(); got.Score != 0 || got.Moves != nil {
		t.Errorf("Best() = %+v, expected zero result", got)
	}
}

func testPlannerConfig(maxRollouts int) config.PlannerConfig {
	cfg := config.DefaultPlannerConfig()
	cfg.Budget.TickMS = 10000
	cfg.Budget.FirstTickMS = 10000
	cfg.Budget.MaxRollouts = maxRollouts
	return cfg
}

func TestControllerFollowsLandingPlan(t *testing.T) {
	e := newEngine(t, 5)
	ctrl := NewController(e, testPlannerConfig(20), nil)
	plan := descentPlan()
	ctrl.Seed(plan)

	trig := e.trig
	observed := descentStart()
	for tick := 0; tick < 200; tick++ {
		report := ctrl.Tick(context.Background(), observed)
		if report.Move.Angle != 0 {
			t.Fatalf("tick %d: angle %d, expected 0", tick, report.Move.Angle)
		}
		if report.Move != plan[tick] {
			t.Fatalf("tick %d: move %v, expected %v", tick, report.Move, plan[tick])
		}
		if report.Rollouts != 20 {
			t.Fatalf("tick %d: %d rollouts, expected 20", tick, report.Rollouts)
		}

		next := trig.Advance(observed.With(report.Move))
		if _, hit := e.terrain.Collide(observed.Pos, next.Pos); hit {
			if !e.terrain.Landed(next) {
				t.Fatalf("crashed at %v", next)
			}
			if tick+1 != 66 {
				t.Errorf("landed on tick %d, expected 66", tick+1)
			}
			return
		}
		observed = next
	}
	t.Fatal("never touched down")
}

func TestControllerLandsOnLevelField(t *testing.T) {
	if testing.Short() {
		t.Skip("searches every turn of a full descent")
	}
	tr := flatTerrain(t)
	policy := NewRandomPolicy(rand.New(rand.NewSource(1)), config.DefaultPolicyWeights())
	e := NewEngine(tr, NewTrigTable(), policy, 600)
	ctrl := NewController(e, testPlannerConfig(300), nil)

	start := descentStart()
	observed := start
	var moves []Move
	for tick := 0; tick < 300; tick++ {
		report := ctrl.Tick(context.Background(), observed)
		moves = append(moves, report.Move)

		next := e.trig.Advance(observed.With(report.Move))
		if _, hit := tr.Collide(observed.Pos, next.Pos); hit {
			if !tr.Landed(next) {
				t.Fatalf("crashed at %v after %d turns", next, tick+1)
			}
			if next.Angle != 0 {
				t.Errorf("touched down at angle %d", next.Angle)
			}
			assertSlew(t, start, moves)
			return
		}
		if !InBounds(next.Pos) {
			t.Fatalf("left the playfield at %v", next.Pos)
		}
		observed = next
	}
	t.Fatal("never touched down")
}

func TestControllerBudget(t *testing.T) {
	t.Run("rollout cap", func(t *testing.T) {
		ctrl := NewController(newEngine(t, 1), testPlannerConfig(7), nil)
		if r := ctrl.Tick(context.Background(), descentStart()); r.Rollouts != 7 {
			t.Errorf("Rollouts = %d, expected 7", r.Rollouts)
		}
	})

	t.Run("cancelled context still runs one rollout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ctrl := NewController(newEngine(t, 1), testPlannerConfig(0), nil)
		r := ctrl.Tick(ctx, descentStart())
		if r.Rollouts != 1 || len(r.Best.Moves) == 0 {
			t.Errorf("Rollouts = %d with %d moves", r.Rollouts, len(r.Best.Moves))
		}
	})

	t.Run("deadline", func(t *testing.T) {
		cfg := config.DefaultPlannerConfig()
		cfg.Budget.TickMS = 1
		cfg.Budget.FirstTickMS = 1
		ctrl := NewController(newEngine(t, 1), cfg, nil)
		if r := ctrl.Tick(context.Background(), descentStart()); r.Rollouts < 1 {
			t.Errorf("Rollouts = %d", r.Rollouts)
		}
	})
}

func TestControllerCarriesPlan(t *testing.T) {
	ctrl := NewController(newEngine(t, 11), testPlannerConfig(30), nil)
	start := descentStart()

	r := ctrl.Tick(context.Background(), start)
	if r.Tick != 1 {
		t.Errorf("Tick = %d, expected 1", r.Tick)
	}
	assertSlew(t, start, []Move{r.Move})
	if r.Move != r.Best.Moves[0] {
		t.Errorf("emitted %v, best plan starts with %v", r.Move, r.Best.Moves[0])
	}
	if !reflect.DeepEqual(ctrl.seed, r.Best.Moves[1:]) && len(r.Best.Moves) > 1 {
		t.Errorf("carried plan differs from best tail")
	}

	ctrl.Reset()
	if len(ctrl.seed) != 0 {
		t.Error("Reset should clear the plan")
	}
	if r := ctrl.Tick(context.Background(), start); r.Tick != 1 {
		t.Errorf("Tick after Reset = %d, expected 1", r.Tick)
	}
}
