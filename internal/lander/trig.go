package lander

// Exact sine values of the non-trivial multiples of 15 degrees.
const (
	sin15 = 0.25881904510252074
	sin30 = 0.5
	sin45 = 0.7071067811865476
	sin60 = 0.8660254037844386
	sin75 = 0.9659258262890683
)

// angleSlots is the number of legal angles: -90..90 in steps of 15.
const angleSlots = 13

// TrigTable maps each legal angle to the thrust projection on both axes.
// It is built once and never mutated, so a single table may be shared.
type TrigTable struct {
	lateral  [angleSlots]float64
	vertical [angleSlots]float64
}

// NewTrigTable builds the table from literal constants.
// A positive angle tilts the craft left, so thrust pushes it toward negative x.
func NewTrigTable() *TrigTable {
	sin := [angleSlots]float64{-1, -sin75, -sin60, -sin45, -sin30, -sin15, 0, sin15, sin30, sin45, sin60, sin75, 1}
	cos := [angleSlots]float64{0, sin15, sin30, sin45, sin60, sin75, 1, sin75, sin60, sin45, sin30, sin15, 0}

	t := &TrigTable{vertical: cos}
	for i, s := range sin {
		t.lateral[i] = -s
	}
	return t
}

// Factors returns the (lateral, vertical) thrust factors for an angle.
// The angle is snapped to the nearest legal value first.
func (t *TrigTable) Factors(angle int) (lateral, vertical float64) {
	i := (SnapAngle(angle) + MaxAngle) / AngleStep
	return t.lateral[i], t.vertical[i]
}
