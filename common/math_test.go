package common

import (
	"math"
	"testing"
)

func TestSecondsToTicks(t *testing.T) {
	cases := []struct {
		name    string
		seconds float64
		want    int
	}{
		{"zero", 0, 0},
		{"negative", -1, 0},
		{"tiny", 0.001, 1},
		{"exact_half", 0.5, 30},
		{"settle", 0.35, 21},
		{"roll", 0.4, 24},
		{"one_second", 1.0, 60},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SecondsToTicks(c.seconds, TPS); got != c.want {
				t.Fatalf("SecondsToTicks(%v) = %d, want %d", c.seconds, got, c.want)
			}
		})
	}
}

func TestRotateAround(t *testing.T) {
	// Quarter turn of the center of a unit square around its bottom-right
	// corner moves it one unit right in screen coordinates.
	x, y := RotateAround(0, 0, 0.5, 0.5, math.Pi/2)
	if math.Abs(x-1) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Fatalf("got (%v, %v), want (1, 0)", x, y)
	}
}
