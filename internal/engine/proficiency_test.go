package engine

import (
	"math"
	"testing"
)

func TestUpdateProficiency(t *testing.T) {
	testCases := []struct {
		name    string
		current float64
		score   float64
		want    float64
	}{
		{"gain takes 20 percent of gap", 50, 80, 56},
		{"decline takes 10 percent of gap", 50, 20, 47},
		{"fixed point", 60, 60, 60},
		{"clamped at 100", 100, 100, 100},
		{"clamped at 0", 0, 0, 0},
		{"from zero", 0, 100, 20},
		{"near ceiling", 99, 100, 99.2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := UpdateProficiency(tc.current, tc.score)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("UpdateProficiency(%v, %v) = %v, want %v", tc.current, tc.score, got, tc.want)
			}
		})
	}
}

func TestUpdateProficiencyMonotonic(t *testing.T) {
	for current := 5.0; current < 100; current += 10 {
		higher := UpdateProficiency(current, current+5)
		if higher <= current {
			t.Errorf("score above level must raise it: level %v -> %v", current, higher)
		}
		lower := UpdateProficiency(current, current-5)
		if lower >= current {
			t.Errorf("score below level must lower it: level %v -> %v", current, lower)
		}
	}
}

func TestUpdateProficiencyAsymmetry(t *testing.T) {
	// 相同的分差，上升幅度应是下降幅度的两倍。
	up := UpdateProficiency(50, 70) - 50
	down := 50 - UpdateProficiency(50, 30)

	if math.Abs(up-2*down) > 1e-9 {
		t.Errorf("gain %v should be twice the decline %v", up, down)
	}
}
