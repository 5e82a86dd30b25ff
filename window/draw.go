// SPDX-License-Identifier: GPL-2.0-or-later

package window

import (
	"github.com/chewxy/math32"
	"github.com/gopxl/mainthread/v2"
	"github.com/veandco/go-sdl2/sdl"
)

const circleSegments = 64

var (
	background = Color{16, 24, 16}
	radarFill  = Color{0, 0, 0}
	radarRim   = Color{51, 51, 51}
	you        = Color{255, 0, 0}
	cone       = Color{90, 90, 90}
)

// Draw renders v and remembers it for hit testing the next events.
func (w *Window) Draw(v View) {
	w.mu.Lock()
	w.view = v
	w.mu.Unlock()
	mainthread.Call(func() {
		r := w.ren
		setColor(r, background)
		r.Clear()

		w.disc(radarFill)
		setColor(r, radarRim)
		w.circle(w.radar.CX, w.radar.CY, w.radar.Radius)

		// view cone, ahead is up
		setColor(r, cone)
		cx, cy := int32(w.radar.CX), int32(w.radar.CY)
		r.DrawLine(cx, cy, cx-40, cy-60)
		r.DrawLine(cx, cy, cx+40, cy-60)

		for _, p := range v.Points {
			if !w.radar.Visible(v.Listener, v.Yaw, p.Position) {
				continue
			}
			x, y := w.radar.Project(v.Listener, v.Yaw, p.Position)
			size := int32(6)
			if p.Draggable {
				size = 12
			}
			setColor(r, p.Color)
			dot(r, x, y, size)
		}
		setColor(r, you)
		dot(r, w.radar.CX, w.radar.CY, 8)
		r.Present()
	})
}

func setColor(r *sdl.Renderer, c Color) {
	r.SetDrawColor(c.R, c.G, c.B, 255)
}

func dot(r *sdl.Renderer, x, y float32, size int32) {
	r.FillRect(&sdl.Rect{X: int32(x) - size/2, Y: int32(y) - size/2, W: size, H: size})
}

func (w *Window) circle(cx, cy, radius float32) {
	var pts [circleSegments + 1]sdl.Point
	for i := range pts {
		s, c := math32.Sincos(2 * math32.Pi * float32(i) / circleSegments)
		pts[i] = sdl.Point{X: int32(cx + radius*c), Y: int32(cy + radius*s)}
	}
	w.ren.DrawLines(pts[:])
}

func (w *Window) disc(c Color) {
	setColor(w.ren, c)
	rad := w.radar.Radius
	for dy := -rad; dy <= rad; dy++ {
		dx := math32.Sqrt(rad*rad - dy*dy)
		y := int32(w.radar.CY + dy)
		w.ren.DrawLine(int32(w.radar.CX-dx), y, int32(w.radar.CX+dx), y)
	}
}
