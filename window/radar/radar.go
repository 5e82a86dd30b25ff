// SPDX-License-Identifier: GPL-2.0-or-later

// Package radar maps world positions onto the round top down view centred
// on the listener. Screen y grows downwards and "ahead" is up.
package radar

import (
	"soundscape/math/vec"

	"github.com/chewxy/math32"
)

// Scale is the number of pixels per world unit.
const Scale = 3

type Radar struct {
	CX, CY float32 // centre on screen
	Radius float32
}

// Project returns the screen position of p seen by a listener at l turned
// by yaw.
func (r Radar) Project(l vec.Vec3, yaw float32, p vec.Vec3) (float32, float32) {
	x := (p.X - l.X) * Scale
	y := (p.Z - l.Z) * Scale
	s, c := math32.Sincos(yaw)
	return r.CX + x*c + y*s, r.CY - x*s + y*c
}

// Contains reports whether the screen point lies on the radar.
func (r Radar) Contains(x, y float32) bool {
	dx, dy := x-r.CX, y-r.CY
	return dx*dx+dy*dy <= r.Radius*r.Radius
}

// Visible reports whether a projected point is inside the radar circle.
func (r Radar) Visible(l vec.Vec3, yaw float32, p vec.Vec3) bool {
	return r.Contains(r.Project(l, yaw, p))
}

// Nearest returns the index of the point in pts closest to the screen point
// (x,y) and not further away than within pixels, or -1.
func (r Radar) Nearest(l vec.Vec3, yaw float32, pts []vec.Vec3, x, y, within float32) int {
	best := -1
	bestD := within * within
	for i, p := range pts {
		px, py := r.Project(l, yaw, p)
		d := (px-x)*(px-x) + (py-y)*(py-y)
		if d <= bestD {
			best, bestD = i, d
		}
	}
	return best
}
