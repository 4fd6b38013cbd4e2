package core

import "testing"

func TestManhattan(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected int
	}{
		{"same point", Pt(3, 4), Pt(3, 4), 0},
		{"horizontal", Pt(0, 0), Pt(7, 0), 7},
		{"vertical", Pt(0, 10), Pt(0, 2), 8},
		{"both axes", Pt(1000, 500), Pt(2500, 100), 1900},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Manhattan(tc.a, tc.b); got != tc.expected {
				t.Errorf("Manhattan(%v, %v) = %d, expected %d", tc.a, tc.b, got, tc.expected)
			}
			// Also test symmetry
			if got := Manhattan(tc.b, tc.a); got != tc.expected {
				t.Errorf("Manhattan (reversed) = %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{-105, -90, 90, -90},
		{90, -90, 90, 90},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestMinMaxAbs(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs should return the magnitude")
	}
}
