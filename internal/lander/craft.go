// Package lander implements the descent planner: kinematics, terrain
// geometry, terminal scoring, the Monte Carlo rollout engine and the
// per-tick controller that turns an observed craft state into a command.
package lander

import (
	"fmt"
	"math"

	"github.com/vovakirdan/mars-lander/internal/core"
)

// Physics and playfield constants.
const (
	Gravity     = 3.711
	FieldWidth  = 7000
	FieldHeight = 3000

	MaxAngle  = 90
	AngleStep = 15
	MaxThrust = 4
)

// Craft is the kinematic state of the lander.
// Angle and Thrust hold the command in effect for the next step.
type Craft struct {
	Pos    core.Point
	HSpeed float64
	VSpeed float64
	Fuel   int
	Angle  int
	Thrust int
}

// String formats the craft for diagnostics.
func (c Craft) String() string {
	return fmt.Sprintf("pos=(%d,%d) hs=%.2f vs=%.2f fuel=%d angle=%d thrust=%d",
		c.Pos.X, c.Pos.Y, c.HSpeed, c.VSpeed, c.Fuel, c.Angle, c.Thrust)
}

// Move is a single (angle, thrust) command.
type Move struct {
	Angle  int
	Thrust int
}

// String formats the move as the game expects it on the wire.
func (m Move) String() string {
	return fmt.Sprintf("%d %d", m.Angle, m.Thrust)
}

// SnapAngle clamps an angle to [-90, 90] and rounds it to the nearest multiple of 15.
func SnapAngle(angle int) int {
	angle = core.Clamp(angle, -MaxAngle, MaxAngle)
	return (angle+MaxAngle+AngleStep/2)/AngleStep*AngleStep - MaxAngle
}

// Clamp returns the command the craft can actually reach from its current
// one: at most one slew step on each actuator and within range. With an
// empty tank the commanded thrust winds down one step per turn.
func (c Craft) Clamp(m Move) Move {
	angle := core.Clamp(m.Angle, c.Angle-AngleStep, c.Angle+AngleStep)
	thrust := core.Clamp(m.Thrust, c.Thrust-1, c.Thrust+1)
	if c.Fuel <= 0 {
		thrust = c.Thrust - 1
	}

	return Move{
		Angle:  SnapAngle(angle),
		Thrust: core.Clamp(thrust, 0, MaxThrust),
	}
}

// With returns a copy of the craft with the clamped command applied.
func (c Craft) With(m Move) Craft {
	m = c.Clamp(m)
	c.Angle = m.Angle
	c.Thrust = m.Thrust
	return c
}

// Advance moves the craft forward one second under its current command.
// Positions are rounded half-up per axis. An empty tank produces no thrust
// whatever the command, and fuel never drops below zero.
func (t *TrigTable) Advance(c Craft) Craft {
	lateral, vertical := t.Factors(c.Angle)
	burn := c.Thrust
	if c.Fuel <= 0 {
		burn = 0
	}
	thrust := float64(burn)

	hs := c.HSpeed + thrust*lateral
	vs := c.VSpeed + thrust*vertical - Gravity

	c.Pos.X = int(math.Floor(float64(c.Pos.X) + (c.HSpeed+hs)/2 + 0.5))
	c.Pos.Y = int(math.Floor(float64(c.Pos.Y) + (c.VSpeed+vs)/2 + 0.5))
	c.HSpeed = hs
	c.VSpeed = vs

	c.Fuel -= burn
	if c.Fuel < 0 {
		c.Fuel = 0
	}
	return c
}

// InBounds reports whether p lies inside the playfield.
func InBounds(p core.Point) bool {
	return p.X >= 0 && p.X <= FieldWidth && p.Y >= 0 && p.Y <= FieldHeight
}
