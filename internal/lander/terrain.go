package lander

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/mars-lander/internal/core"
)

// Terrain validation errors.
var (
	ErrTooFewPoints     = errors.New("terrain needs at least two points")
	ErrUnorderedTerrain = errors.New("terrain x coordinates must strictly increase")
	ErrNoLandingZone    = errors.New("terrain has no flat landing segment")
)

const desirabilityOffset = 10

// Terrain is the immutable surface polyline with its landing pad.
type Terrain struct {
	points       []core.Point
	padIndex     int
	desirability []int
	worst        int
}

// NewTerrain validates the polyline and caches pad bounds and per-segment desirability.
// When several segments are flat, the shortest one is the pad and the
// rightmost wins equal lengths.
func NewTerrain(points []core.Point) (*Terrain, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("lander: %w (got %d)", ErrTooFewPoints, len(points))
	}

	pad := -1
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if b.X <= a.X {
			return nil, fmt.Errorf("lander: %w at point %d (x=%d after x=%d)", ErrUnorderedTerrain, i+1, b.X, a.X)
		}
		if a.Y != b.Y {
			continue
		}
		if pad < 0 || b.X-a.X <= points[pad+1].X-points[pad].X {
			pad = i
		}
	}
	if pad < 0 {
		return nil, fmt.Errorf("lander: %w", ErrNoLandingZone)
	}

	t := &Terrain{
		points:       append([]core.Point(nil), points...),
		padIndex:     pad,
		desirability: make([]int, len(points)-1),
	}
	for i := range t.desirability {
		switch {
		case i < pad:
			t.desirability[i] = i + desirabilityOffset
		case i > pad:
			t.desirability[i] = 2*pad - i + desirabilityOffset
		default:
			t.desirability[i] = pad + desirabilityOffset
		}
	}
	t.worst = core.Min(t.desirability[0], t.desirability[len(t.desirability)-1])
	return t, nil
}

// Segments returns the number of segments.
func (t *Terrain) Segments() int { return len(t.points) - 1 }

// Segment returns the endpoints of segment i.
func (t *Terrain) Segment(i int) (core.Point, core.Point) {
	return t.points[i], t.points[i+1]
}

func (t *Terrain) PadIndex() int { return t.padIndex }
func (t *Terrain) PadLeft() int { return t.points[t.padIndex].X }
func (t *Terrain) PadRight() int { return t.points[t.padIndex+1].X }
func (t *Terrain) PadHeight() int { return t.points[t.padIndex].Y }

// PadCenter returns the middle of the landing pad.
func (t *Terrain) PadCenter() core.Point {
	return core.Pt((t.PadLeft()+t.PadRight())/2, t.PadHeight())
}

// Desirability returns the ranking of segment i; the pad is the strict maximum.
func (t *Terrain) Desirability(i int) int { return t.desirability[i] }

// WorstDesirability returns the lowest ranking over all segments.
func (t *Terrain) WorstDesirability() int { return t.worst }

// SegmentBelow returns the segment whose x range holds x.
// Positions beyond either end map to the outermost segment.
func (t *Terrain) SegmentBelow(x int) int {
	last := len(t.points) - 2
	for i := 0; i < last; i++ {
		if x < t.points[i+1].X {
			return i
		}
	}
	return last
}

// HeightAt returns the surface height at x, interpolated along its segment.
func (t *Terrain) HeightAt(x int) float64 {
	a, b := t.Segment(t.SegmentBelow(x))
	x = core.Clamp(x, a.X, b.X)
	return float64(a.Y) + float64(b.Y-a.Y)*float64(x-a.X)/float64(b.X-a.X)
}
