// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "math"

const (
	Pi = math.Pi
)

// WrapAngle changes an angle in radians to be within (-Pi, Pi]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+Pi, 2*Pi)
	if a <= 0 {
		a += 2 * Pi
	}
	return a - Pi
}

// WrapAngle32 changes an angle in radians to be within (-Pi, Pi]
func WrapAngle32(a float32) float32 {
	return float32(WrapAngle(float64(a)))
}
