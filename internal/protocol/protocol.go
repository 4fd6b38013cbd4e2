// Package protocol reads the game's line-based input and writes commands.
//
// Setup is a point count followed by that many "x y" pairs. Every turn is
// seven integers: x y hSpeed vSpeed fuel rotate power. The agent answers
// each turn with a single "angle thrust" line.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
)

// ErrMalformed is wrapped by every parse failure other than a clean end of input.
var ErrMalformed = errors.New("malformed input")

// maxSurfacePoints guards against absurd counts on corrupted input.
const maxSurfacePoints = 1000

// Reader decodes game input from a stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r with buffering.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadSurface reads the terrain polyline.
func (r *Reader) ReadSurface() ([]core.Point, error) {
	var n int
	if err := r.scan(&n); err != nil {
		return nil, err
	}
	if n < 0 || n > maxSurfacePoints {
		return nil, fmt.Errorf("protocol: %w: surface point count %d", ErrMalformed, n)
	}

	points := make([]core.Point, n)
	for i := range points {
		if err := r.scan(&points[i].X, &points[i].Y); err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("protocol: %w: surface ended after %d of %d points", ErrMalformed, i, n)
			}
			return nil, err
		}
	}
	return points, nil
}

// ReadTurn reads one observed craft state. It returns io.EOF when the
// input ends cleanly between turns.
func (r *Reader) ReadTurn() (lander.Craft, error) {
	var c lander.Craft
	var hs, vs int
	if err := r.scan(&c.Pos.X, &c.Pos.Y, &hs, &vs, &c.Fuel, &c.Angle, &c.Thrust); err != nil {
		return lander.Craft{}, err
	}

	switch {
	case c.Fuel < 0:
		return lander.Craft{}, fmt.Errorf("protocol: %w: negative fuel %d", ErrMalformed, c.Fuel)
	case c.Angle < -lander.MaxAngle || c.Angle > lander.MaxAngle:
		return lander.Craft{}, fmt.Errorf("protocol: %w: rotate %d out of range", ErrMalformed, c.Angle)
	case c.Thrust < 0 || c.Thrust > lander.MaxThrust:
		return lander.Craft{}, fmt.Errorf("protocol: %w: power %d out of range", ErrMalformed, c.Thrust)
	}

	c.HSpeed = float64(hs)
	c.VSpeed = float64(vs)
	c.Angle = lander.SnapAngle(c.Angle)
	return c, nil
}

// scan reads whitespace-separated integers. A stream that ends before the
// first value yields io.EOF; anything else that fails is malformed.
func (r *Reader) scan(dst ...any) error {
	n, err := fmt.Fscan(r.r, dst...)
	if err == nil {
		return nil
	}
	if n == 0 && errors.Is(err, io.EOF) {
		return io.EOF
	}
	return fmt.Errorf("protocol: %w: %v", ErrMalformed, err)
}

// WriteMove writes a command line.
func WriteMove(w io.Writer, m lander.Move) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", m.Angle, m.Thrust); err != nil {
		return fmt.Errorf("protocol: write move: %w", err)
	}
	return nil
}
