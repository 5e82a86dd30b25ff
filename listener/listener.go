// SPDX-License-Identifier: GPL-2.0-or-later

// Package listener moves the observer from held keys and look drags and
// publishes the result to the audio device every frame.
package listener

import (
	"soundscape/device"
	"soundscape/frame"
	"soundscape/input"
	"soundscape/math"
	"soundscape/math/vec"
)

const (
	Speed       = 0.1   // world units per frame
	Sensitivity = 0.005 // radians per pixel
)

// Transform is the observer of one frame.
type Transform struct {
	Position vec.Vec3
	Yaw      float32
	Forward  vec.Vec3
	Right    vec.Vec3
	Up       vec.Vec3
}

type Observer func(Transform)

type Option func(*Tracker)

// WithObserver adds a function called with the transform of every frame.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observers = append(t.observers, o)
	}
}

// WithStart sets the initial position and yaw.
func WithStart(pos vec.Vec3, yaw float32) Option {
	return func(t *Tracker) {
		t.pos = pos
		t.yaw = yaw
	}
}

type Tracker struct {
	dev       *device.Context
	loop      *frame.Loop
	bus       *input.Bus
	in        *input.State
	observers []Observer

	pos vec.Vec3
	yaw float32

	active      bool
	unsubscribe func()
	task        frame.Handle
}

func New(dev *device.Context, loop *frame.Loop, bus *input.Bus, opts ...Option) *Tracker {
	t := &Tracker{
		dev:  dev,
		loop: loop,
		bus:  bus,
		in:   input.NewState(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Input gives access to the key bindings.
func (t *Tracker) Input() *input.State {
	return t.in
}

func (t *Tracker) Active() bool {
	return t.active
}

// Activate subscribes to input and starts the per-frame update.
func (t *Tracker) Activate() {
	if t.active {
		return
	}
	t.active = true
	t.unsubscribe = t.bus.Subscribe(t.in.HandleEvent)
	t.task = t.loop.Request(func(frame.Frame) { t.update() })
}

// Deactivate removes the input subscription and cancels the frame task.
// Held keys are released.
func (t *Tracker) Deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.unsubscribe()
	t.unsubscribe = nil
	t.task.Cancel()
	t.in.Release()
}

// Transform returns the observer without advancing it.
func (t *Tracker) Transform() Transform {
	fwd, right := vec.YawVectors(t.yaw)
	return Transform{
		Position: t.pos,
		Yaw:      t.yaw,
		Forward:  fwd,
		Right:    right,
		Up:       vec.UnitY,
	}
}

func (t *Tracker) update() Transform {
	t.yaw = math.WrapAngle32(t.yaw - t.in.ConsumeLook()*Sensitivity)

	fwd, right := vec.YawVectors(t.yaw)
	if t.in.Down(input.Forward) {
		t.pos = vec.Add(t.pos, fwd.Scale(Speed))
	}
	if t.in.Down(input.Back) {
		t.pos = vec.Sub(t.pos, fwd.Scale(Speed))
	}
	if t.in.Down(input.MoveLeft) {
		t.pos = vec.Sub(t.pos, right.Scale(Speed))
	}
	if t.in.Down(input.MoveRight) {
		t.pos = vec.Add(t.pos, right.Scale(Speed))
	}

	tr := t.Transform()
	t.dev.UpdateListener(tr.Position, tr.Forward, tr.Up)
	for _, o := range t.observers {
		o(tr)
	}
	return tr
}
