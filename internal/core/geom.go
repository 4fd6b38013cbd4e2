// Package core provides the fundamental types shared by the planner, the
// referee and the terminal front-ends. It has no external dependencies so the
// simulation code stays pure and testable.
package core

// Point is an integer position on the playfield.
// X is the horizontal coordinate, Y the height above the bottom edge.
type Point struct {
	X, Y int
}

// Pt is shorthand for constructing a Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Manhattan returns |dx| + |dy| between two points.
func Manhattan(a, b Point) int {
	return Abs(a.X-b.X) + Abs(a.Y-b.Y)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
