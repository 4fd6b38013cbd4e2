package referee

import (
	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
)

// Scene glyphs.
const (
	glyphGround = '#'
	glyphPad    = '='
	glyphTrail  = '.'
	glyphCraft  = 'A'
)

// Render draws terrain, pad, flight trail and craft into dst, scaling the
// playfield to the whole screen.
func (r *Referee) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w < 2 || h < 2 {
		return
	}
	project := func(p core.Point) (int, int) {
		x := p.X * (w - 1) / lander.FieldWidth
		y := (h - 1) - p.Y*(h-1)/lander.FieldHeight
		return x, y
	}

	// Fill below the surface first so the outline stays visible.
	for sx := 0; sx < w; sx++ {
		wx := sx * lander.FieldWidth / (w - 1)
		_, top := project(core.Pt(wx, int(r.terrain.HeightAt(wx))))
		for sy := top + 1; sy < h; sy++ {
			dst.SetColored(sx, sy, ':', core.ColorGray)
		}
	}

	for i := 0; i < r.terrain.Segments(); i++ {
		a, b := r.terrain.Segment(i)
		x0, y0 := project(a)
		x1, y1 := project(b)
		if i == r.terrain.PadIndex() {
			dst.DrawLine(x0, y0, x1, y1, glyphPad, core.ColorBrightGreen)
		} else {
			dst.DrawLine(x0, y0, x1, y1, glyphGround, core.ColorOrange)
		}
	}

	for _, p := range r.trail {
		if !lander.InBounds(p) {
			continue
		}
		x, y := project(p)
		if dst.Get(x, y) == ' ' {
			dst.SetColored(x, y, glyphTrail, core.ColorCyan)
		}
	}

	if lander.InBounds(r.craft.Pos) {
		x, y := project(r.craft.Pos)
		dst.SetColored(x, y, glyphCraft, r.outcomeColor())
	}
}

func (r *Referee) outcomeColor() core.Color {
	switch r.outcome {
	case Landed:
		return core.ColorBrightGreen
	case Crashed, Lost:
		return core.ColorBrightRed
	default:
		return core.ColorBrightYellow
	}
}
