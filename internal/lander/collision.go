package lander

import "github.com/vovakirdan/mars-lander/internal/core"

// colinearTolerance absorbs rounding noise from integer positions.
const colinearTolerance = 10

// Orientation classifies the turn p -> q -> r:
// 0 for (nearly) colinear, 1 for clockwise, 2 for counterclockwise.
func Orientation(p, q, r core.Point) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case core.Abs(val) <= colinearTolerance:
		return 0
	case val > 0:
		return 1
	default:
		return 2
	}
}

// Intersects reports whether segment a1-a2 crosses segment b1-b2.
func Intersects(a1, a2, b1, b2 core.Point) bool {
	o1 := Orientation(a1, a2, b1)
	o2 := Orientation(a1, a2, b2)
	o3 := Orientation(b1, b2, a1)
	o4 := Orientation(b1, b2, a2)
	return o1 != o2 && o3 != o4
}

// Collide returns the lowest-index terrain segment crossed by the motion from -> to.
func (t *Terrain) Collide(from, to core.Point) (int, bool) {
	for i := 0; i < len(t.points)-1; i++ {
		if Intersects(t.points[i], t.points[i+1], from, to) {
			return i, true
		}
	}
	return -1, false
}
