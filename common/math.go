package common

import "math"

// SecondsToTicks converts an authored duration into whole physics ticks.
// Any positive duration lasts at least one tick.
func SecondsToTicks(seconds float64, tps int) int {
	if seconds <= 0 || tps <= 0 {
		return 0
	}
	return max(1, int(math.Ceil(seconds*float64(tps)-1e-9)))
}

// RotateAround rotates (x, y) by angle radians around (px, py).
func RotateAround(x, y, px, py, angle float64) (float64, float64) {
	s, c := math.Sincos(angle)
	dx, dy := x-px, y-py
	return px + dx*c - dy*s, py + dx*s + dy*c
}
