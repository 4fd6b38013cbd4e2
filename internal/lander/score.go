package lander

import "github.com/vovakirdan/mars-lander/internal/core"

// Landing tolerances.
const (
	SuccessScore = 999_999_999

	landingHeightSlack = 50
	maxLandingVSpeed   = 40
	maxLandingHSpeed   = 20
	desirabilityWeight = 6000
)

// Cause is why a rollout stopped.
type Cause int

const (
	CauseCollision Cause = iota
	CauseOutOfBounds
	CauseStepCap
)

func (c Cause) String() string {
	switch c {
	case CauseCollision:
		return "collision"
	case CauseOutOfBounds:
		return "out-of-bounds"
	case CauseStepCap:
		return "step-cap"
	default:
		return "unknown"
	}
}

// Terminal is the final state of a rollout.
// Segment is the terrain segment involved, or -1 when out of bounds.
type Terminal struct {
	Craft   Craft
	Cause   Cause
	Segment int
}

// Landed reports whether the craft is in a safe touchdown state over the pad.
func (t *Terrain) Landed(c Craft) bool {
	return c.Pos.X > t.PadLeft() && c.Pos.X < t.PadRight() &&
		core.Abs(c.Pos.Y-t.PadHeight()) <= landingHeightSlack &&
		c.Angle == 0 &&
		abs(c.VSpeed) < maxLandingVSpeed &&
		abs(c.HSpeed) < maxLandingHSpeed
}

// Score rates a terminal state. A safe landing returns SuccessScore; every
// other outcome ranks by how close to the pad the craft ended, then by
// distance to a reference point, then by fuel left.
func (t *Terrain) Score(term Terminal) float64 {
	if term.Cause == CauseCollision && t.Landed(term.Craft) {
		return SuccessScore
	}

	var desirability int
	var ref core.Point
	switch term.Cause {
	case CauseOutOfBounds:
		desirability = t.worst
		first, last := t.points[0], t.points[len(t.points)-1]
		ref = first
		if core.Manhattan(term.Craft.Pos, last) < core.Manhattan(term.Craft.Pos, first) {
			ref = last
		}
	default:
		seg := term.Segment
		if term.Cause == CauseStepCap || seg < 0 || seg >= t.Segments() {
			seg = t.SegmentBelow(term.Craft.Pos.X)
		}
		desirability = t.desirability[seg]
		ref = t.reference(seg)
	}

	penalty := core.Manhattan(term.Craft.Pos, ref)
	return float64(desirability*desirabilityWeight - penalty + term.Craft.Fuel)
}

// reference returns the point a crash on segment i is measured against.
func (t *Terrain) reference(i int) core.Point {
	switch {
	case i < t.padIndex:
		return t.points[i+1]
	case i > t.padIndex:
		return t.points[i]
	default:
		return t.PadCenter()
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
