package engine

import (
	"math"
	"testing"
)

func TestPercentileAtMean(t *testing.T) {
	for _, stdDev := range []float64{5, 15, 30} {
		if got := Percentile(70, 70, stdDev); got != 50.0 {
			t.Errorf("Percentile(mean, mean, %v) = %v, want 50.0", stdDev, got)
		}
	}
}

func TestPercentileKnownValues(t *testing.T) {
	testCases := []struct {
		name     string
		score    float64
		peerMean float64
		stdDev   float64
		want     float64
	}{
		{"one sigma above", 85, 70, 15, 84.1},
		{"one sigma below", 55, 70, 15, 15.9},
		{"two sigma above", 100, 70, 15, 97.7},
		{"default spread half sigma", 77.5, 70, DefaultStdDev, 69.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Percentile(tc.score, tc.peerMean, tc.stdDev)
			if math.Abs(got-tc.want) > 0.05 {
				t.Errorf("Percentile(%v, %v, %v) = %v, want %v",
					tc.score, tc.peerMean, tc.stdDev, got, tc.want)
			}
		})
	}
}

func TestPercentileMonotonicInScore(t *testing.T) {
	prev := -1.0
	for score := 0.0; score <= 100; score += 2.5 {
		got := Percentile(score, 50, 15)
		if got < prev {
			t.Fatalf("percentile decreased at score %v: %v < %v", score, got, prev)
		}
		prev = got
	}
}

func TestPercentileSymmetry(t *testing.T) {
	// 近似式按 z 的符号分支换算，两侧应互补。
	above := Percentile(80, 70, 15)
	below := Percentile(60, 70, 15)

	if math.Abs((above+below)-100) > 0.11 {
		t.Errorf("percentiles %v and %v are not complementary", above, below)
	}
}
