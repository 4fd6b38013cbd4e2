package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
)

func TestReadGame(t *testing.T) {
	input := `4
0 200
2000 100
2500 100
6999 200
2200 2000 0 0 500 0 0
2200 1998 -1 -4 500 0 0
`
	r := NewReader(strings.NewReader(input))

	surface, err := r.ReadSurface()
	if err != nil {
		t.Fatalf("ReadSurface: %v", err)
	}
	expected := []core.Point{core.Pt(0, 200), core.Pt(2000, 100), core.Pt(2500, 100), core.Pt(6999, 200)}
	if len(surface) != len(expected) {
		t.Fatalf("got %d points, expected %d", len(surface), len(expected))
	}
	for i := range expected {
		if surface[i] != expected[i] {
			t.Errorf("point %d = %v, expected %v", i, surface[i], expected[i])
		}
	}

	first, err := r.ReadTurn()
	if err != nil {
		t.Fatalf("ReadTurn: %v", err)
	}
	if first != (lander.Craft{Pos: core.Pt(2200, 2000), Fuel: 500}) {
		t.Errorf("first turn = %v", first)
	}

	second, err := r.ReadTurn()
	if err != nil {
		t.Fatalf("ReadTurn: %v", err)
	}
	if second.HSpeed != -1 || second.VSpeed != -4 || second.Pos.Y != 1998 {
		t.Errorf("second turn = %v", second)
	}

	if _, err := r.ReadTurn(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadTurn at end = %v, expected io.EOF", err)
	}
}

func TestReadTurnSnapsAngle(t *testing.T) {
	r := NewReader(strings.NewReader("100 100 0 0 10 -22 1\n"))
	c, err := r.ReadTurn()
	if err != nil {
		t.Fatalf("ReadTurn: %v", err)
	}
	if c.Angle != -15 {
		t.Errorf("Angle = %d, expected -15", c.Angle)
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		turn  bool
	}{
		{"negative count", "-1\n", false},
		{"huge count", "100000\n", false},
		{"not a number", "abc\n", false},
		{"truncated surface", "3\n0 100\n500 100\n", false},
		{"truncated turn", "1 2 3\n", true},
		{"bad power", "1 2 3 4 5 0 7\n", true},
		{"bad rotate", "1 2 3 4 5 120 1\n", true},
		{"negative fuel", "1 2 3 4 -5 0 1\n", true},
		{"garbage turn", "x y\n", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tc.input))
			var err error
			if tc.turn {
				_, err = r.ReadTurn()
			} else {
				_, err = r.ReadSurface()
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error = %v, expected ErrMalformed", err)
			}
		})
	}
}

func TestEmptyInputIsEOF(t *testing.T) {
	if _, err := NewReader(strings.NewReader("")).ReadSurface(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadSurface on empty input = %v", err)
	}
	if _, err := NewReader(strings.NewReader("  \n")).ReadTurn(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadTurn on blank input = %v", err)
	}
}

func TestWriteMove(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMove(&buf, lander.Move{Angle: -15, Thrust: 3}); err != nil {
		t.Fatal(err)
	}
	if err := WriteMove(&buf, lander.Move{Angle: 0, Thrust: 4}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "-15 3\n0 4\n" {
		t.Errorf("output = %q", got)
	}
}
