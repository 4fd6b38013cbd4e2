package referee

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/mars-lander/internal/config"
	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
	"github.com/vovakirdan/mars-lander/internal/maps"
)

func newReferee(t *testing.T, id string) *Referee {
	t.Helper()
	m, err := maps.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := New(m, lander.NewTrigTable())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ref
}

func descentPlan() []lander.Move {
	var plan []lander.Move
	for i := 0; i < 9; i++ {
		plan = append(plan, lander.Move{Angle: 0, Thrust: 0})
	}
	for thrust := 1; thrust <= 3; thrust++ {
		plan = append(plan, lander.Move{Angle: 0, Thrust: thrust})
	}
	for i := 0; i < 200; i++ {
		plan = append(plan, lander.Move{Angle: 0, Thrust: 4})
	}
	return plan
}

func TestScriptedLanding(t *testing.T) {
	ref := newReferee(t, "descent")

	var last StepResult
	for _, m := range descentPlan() {
		last = ref.Step(m)
		if ref.Done() {
			break
		}
	}

	if last.Outcome != Landed {
		t.Fatalf("outcome %v at %v", last.Outcome, last.Craft)
	}
	if last.Turn != 66 || last.Craft.Fuel != 278 || last.Segment != 1 {
		t.Errorf("landed on turn %d with fuel %d on segment %d", last.Turn, last.Craft.Fuel, last.Segment)
	}
	if len(ref.trail) != 67 {
		t.Errorf("trail has %d points, expected 67", len(ref.trail))
	}
}

func TestFreeFallCrashes(t *testing.T) {
	ref := newReferee(t, "descent")
	for !ref.Done() {
		ref.Step(lander.Move{Angle: 0, Thrust: 0})
	}
	if ref.Outcome() != Crashed {
		t.Errorf("outcome = %v, expected crashed", ref.Outcome())
	}

	// Steps after the end change nothing.
	before := ref.Craft()
	res := ref.Step(lander.Move{Angle: 15, Thrust: 1})
	if res.Craft != before || res.Turn != ref.Turn() || res.Outcome != Crashed {
		t.Errorf("step after end changed state: %+v", res)
	}
}

func TestLeavingPlayfield(t *testing.T) {
	m, err := maps.Get("descent")
	if err != nil {
		t.Fatal(err)
	}
	m.Start = lander.Craft{Pos: core.Pt(20, 2500), HSpeed: -60, Fuel: 100}
	ref, err := New(m, lander.NewTrigTable())
	if err != nil {
		t.Fatal(err)
	}

	res := ref.Step(lander.Move{})
	if res.Outcome != Lost || res.Segment != -1 {
		t.Errorf("outcome %v segment %d, expected lost", res.Outcome, res.Segment)
	}
}

func TestStepClampsCommand(t *testing.T) {
	ref := newReferee(t, "descent")
	res := ref.Step(lander.Move{Angle: 90, Thrust: 4})
	if res.Command != (lander.Move{Angle: 15, Thrust: 1}) {
		t.Errorf("applied %v, expected 15 1", res.Command)
	}
	if res.Craft.Angle != 15 || res.Craft.Thrust != 1 || res.Craft.Fuel != 499 {
		t.Errorf("craft = %v", res.Craft)
	}
}

func TestReset(t *testing.T) {
	ref := newReferee(t, "easy-right")
	ref.Step(lander.Move{Angle: 0, Thrust: 1})
	ref.Step(lander.Move{Angle: 0, Thrust: 2})
	ref.Reset()

	if ref.Turn() != 0 || ref.Craft() != ref.Map().Start || ref.Outcome() != Flying || len(ref.trail) != 1 {
		t.Errorf("Reset left turn=%d craft=%v outcome=%v", ref.Turn(), ref.Craft(), ref.Outcome())
	}
}

func TestNewRejectsBadTerrain(t *testing.T) {
	m := maps.Map{ID: "ramp", Surface: []core.Point{core.Pt(0, 100), core.Pt(500, 200), core.Pt(900, 300)}}
	if _, err := New(m, lander.NewTrigTable()); !errors.Is(err, lander.ErrNoLandingZone) {
		t.Errorf("New = %v, expected ErrNoLandingZone", err)
	}
}

func TestRender(t *testing.T) {
	ref := newReferee(t, "descent")
	screen := core.NewScreen(70, 30)
	ref.Render(screen)

	out := screen.String()
	if strings.Count(out, string(glyphCraft)) != 1 {
		t.Errorf("expected exactly one craft glyph")
	}
	if !strings.Contains(out, string(glyphPad)) || !strings.Contains(out, string(glyphGround)) {
		t.Errorf("terrain not drawn:\n%s", out)
	}

	// Craft at (2200, 2000) maps to column 21, row 10.
	if cell := screen.GetCell(21, 10); cell.Rune != glyphCraft || cell.Color != core.ColorBrightYellow {
		t.Errorf("craft cell = %+v", cell)
	}

	// Tiny screens are ignored rather than panicking.
	ref.Render(core.NewScreen(1, 1))
}

func newController(t *testing.T, ref *Referee, maxRollouts int) *lander.Controller {
	t.Helper()
	cfg := config.DefaultPlannerConfig()
	cfg.Budget.TickMS = 10000
	cfg.Budget.FirstTickMS = 10000
	cfg.Budget.MaxRollouts = maxRollouts

	policy := lander.NewRandomPolicy(rand.New(rand.NewSource(1)), cfg.Policy)
	engine := lander.NewEngine(ref.Terrain(), ref.Trig(), policy, cfg.Search.StepCap)
	return lander.NewController(engine, cfg, nil)
}

func TestPlaySeededController(t *testing.T) {
	ref := newReferee(t, "descent")
	ctrl := newController(t, ref, 10)
	ctrl.Seed(descentPlan())

	ep, err := Play(context.Background(), ref, ctrl, 500)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if ep.Outcome != Landed || ep.Turns != 66 || ep.FuelLeft != 278 || ep.MapID != "descent" {
		t.Errorf("episode = %+v", ep)
	}
	if ep.Rollouts != 66*10 {
		t.Errorf("Rollouts = %d, expected %d", ep.Rollouts, 66*10)
	}
}

func TestPlayTurnLimit(t *testing.T) {
	ref := newReferee(t, "descent")
	ep, err := Play(context.Background(), ref, newController(t, ref, 5), 3)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if ep.Turns != 3 || ep.Outcome != Flying {
		t.Errorf("episode = %+v", ep)
	}
}

func TestPlayCancelled(t *testing.T) {
	ref := newReferee(t, "descent")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ep, err := Play(ctx, ref, newController(t, ref, 5), 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Play error = %v, expected context.Canceled", err)
	}
	if ep.Turns != 0 {
		t.Errorf("Turns = %d, expected 0", ep.Turns)
	}
}
