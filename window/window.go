// SPDX-License-Identifier: GPL-2.0-or-later

// Package window is the SDL front end of the demo: it owns the window,
// turns SDL events into input events and draws the radar.
package window

import (
	"log"
	"sync"

	"soundscape/input"
	"soundscape/keycode"
	"soundscape/math/vec"
	"soundscape/window/radar"

	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	radarRadius = 100
	radarMargin = 20
	grabRadius  = 8
)

type Color struct {
	R, G, B uint8
}

// Point is something shown on the radar.
type Point struct {
	ID        string
	Position  vec.Vec3
	Color     Color
	Draggable bool
}

// View is what one frame draws.
type View struct {
	Listener vec.Vec3
	Yaw      float32
	Points   []Point
}

// Handler receives the translated events.
type Handler interface {
	Input(e input.Event)
	Quit()
}

type Window struct {
	win   *sdl.Window
	ren   *sdl.Renderer
	radar radar.Radar

	mu   sync.Mutex // view is drawn and hit tested from different goroutines
	view View
}

// Open initializes SDL video and creates the window. It has to be called
// from inside mainthread.Run.
func Open(title string, width, height int) (*Window, error) {
	w := &Window{
		radar: radar.Radar{
			CX:     float32(width - radarRadius - radarMargin),
			CY:     float32(radarRadius + radarMargin),
			Radius: radarRadius,
		},
	}
	var err error
	mainthread.Call(func() {
		v := sdl.Version{}
		sdl.GetVersion(&v)
		log.Printf("Found SDL version %d.%d.%d\n", v.Major, v.Minor, v.Patch)
		if err = sdl.Init(sdl.INIT_VIDEO); err != nil {
			err = errors.Wrap(err, "sdl init")
			return
		}
		w.win, err = sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
			int32(width), int32(height), sdl.WINDOW_SHOWN)
		if err != nil {
			err = errors.Wrap(err, "create window")
			return
		}
		w.ren, err = sdl.CreateRenderer(w.win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
		if err != nil {
			w.ren, err = sdl.CreateRenderer(w.win, -1, sdl.RENDERER_SOFTWARE)
		}
		if err != nil {
			err = errors.Wrap(err, "create renderer")
		}
	})
	if err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Window) Close() {
	mainthread.Call(func() {
		if w.ren != nil {
			w.ren.Destroy()
			w.ren = nil
		}
		if w.win != nil {
			w.win.Destroy()
			w.win = nil
		}
		sdl.Quit()
	})
}

func (w *Window) SetTitle(title string) {
	mainthread.CallNonBlock(func() {
		w.win.SetTitle(title)
	})
}

// Poll hands every pending event to h.
func (w *Window) Poll(h Handler) {
	var events []sdl.Event
	mainthread.Call(func() {
		for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
			events = append(events, e)
		}
	})
	for _, e := range events {
		w.handle(e, h)
	}
}

func (w *Window) handle(e sdl.Event, h Handler) {
	switch t := e.(type) {
	case *sdl.QuitEvent:
		h.Quit()
	case *sdl.KeyboardEvent:
		if t.Repeat != 0 {
			return
		}
		k := scancodeToKey(t.Keysym.Scancode)
		if k == keycode.NONE {
			return
		}
		kind := input.KeyUp
		if t.State == sdl.PRESSED {
			kind = input.KeyDown
		}
		h.Input(input.Event{Kind: kind, Key: k})
	case *sdl.MouseButtonEvent:
		if t.Button != sdl.BUTTON_LEFT {
			return
		}
		if t.State != sdl.PRESSED {
			h.Input(input.Event{Kind: input.MouseUp, Key: keycode.MOUSE1})
			return
		}
		x, y := float32(t.X), float32(t.Y)
		surface := input.Background
		if w.radar.Contains(x, y) {
			surface = input.Overlay
		}
		id, _ := w.grab(x, y)
		h.Input(input.Event{Kind: input.MouseDown, Key: keycode.MOUSE1, Surface: surface, Target: id})
	case *sdl.MouseMotionEvent:
		h.Input(input.Event{Kind: input.MouseMove, DX: float32(t.XRel), DY: float32(t.YRel)})
	}
}

// grab returns the draggable point under the screen position of the last
// drawn view.
func (w *Window) grab(x, y float32) (string, bool) {
	w.mu.Lock()
	v := w.view
	w.mu.Unlock()
	var pts []vec.Vec3
	var ids []string
	for _, p := range v.Points {
		if p.Draggable {
			pts = append(pts, p.Position)
			ids = append(ids, p.ID)
		}
	}
	i := w.radar.Nearest(v.Listener, v.Yaw, pts, x, y, grabRadius)
	if i < 0 {
		return "", false
	}
	return ids[i], true
}

// scancodeToKey uses the physical key, not what it is mapped to.
func scancodeToKey(sc sdl.Scancode) keycode.KeyCode {
	switch {
	case sc >= sdl.SCANCODE_A && sc <= sdl.SCANCODE_Z:
		return keycode.KeyCode('a' + int(sc-sdl.SCANCODE_A))
	case sc >= sdl.SCANCODE_1 && sc <= sdl.SCANCODE_9:
		return keycode.KeyCode('1' + int(sc-sdl.SCANCODE_1))
	}
	switch sc {
	case sdl.SCANCODE_0:
		return keycode.KeyCode('0')
	case sdl.SCANCODE_TAB:
		return keycode.TAB
	case sdl.SCANCODE_RETURN, sdl.SCANCODE_RETURN2:
		return keycode.ENTER
	case sdl.SCANCODE_ESCAPE:
		return keycode.ESCAPE
	case sdl.SCANCODE_SPACE:
		return keycode.SPACE
	case sdl.SCANCODE_BACKSPACE:
		return keycode.BACKSPACE
	case sdl.SCANCODE_UP:
		return keycode.UPARROW
	case sdl.SCANCODE_DOWN:
		return keycode.DOWNARROW
	case sdl.SCANCODE_LEFT:
		return keycode.LEFTARROW
	case sdl.SCANCODE_RIGHT:
		return keycode.RIGHTARROW
	case sdl.SCANCODE_LEFTBRACKET:
		return keycode.KeyCode('[')
	case sdl.SCANCODE_RIGHTBRACKET:
		return keycode.KeyCode(']')
	case sdl.SCANCODE_COMMA:
		return keycode.KeyCode(',')
	case sdl.SCANCODE_PERIOD:
		return keycode.KeyCode('.')
	case sdl.SCANCODE_MINUS:
		return keycode.KeyCode('-')
	case sdl.SCANCODE_EQUALS:
		return keycode.KeyCode('=')
	case sdl.SCANCODE_LALT, sdl.SCANCODE_RALT:
		return keycode.ALT
	case sdl.SCANCODE_LCTRL, sdl.SCANCODE_RCTRL:
		return keycode.CTRL
	case sdl.SCANCODE_LSHIFT, sdl.SCANCODE_RSHIFT:
		return keycode.SHIFT
	case sdl.SCANCODE_F1:
		return keycode.F1
	}
	return keycode.NONE
}
