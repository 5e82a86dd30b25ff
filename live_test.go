// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"testing"
	"time"

	"soundscape/device"
	"soundscape/frame"
	"soundscape/input"
	"soundscape/keycode"
	"soundscape/rand"
	"soundscape/scene"
)

func testApp() *app {
	var now time.Duration
	clock := func() time.Duration {
		now += frame.DefaultInterval
		return now
	}
	dev := device.New(&device.Offline{}, 8000)
	return newApp(dev, frame.New(clock), rand.New(1), rand.New(2))
}

func TestStartClickDoesNotGrab(t *testing.T) {
	a := testApp()
	defer a.stop()
	click := input.Event{Kind: input.MouseDown, Key: keycode.MOUSE1, Surface: input.Overlay, Target: string(scene.Elephant)}

	a.Input(click)
	if a.director.State() != scene.Running {
		t.Fatalf("scene %v after start click", a.director.State())
	}
	if a.director.Dragging() != "" || a.director.Mode() != scene.Auto {
		t.Errorf("start click grabbed %q, mode %v", a.director.Dragging(), a.director.Mode())
	}

	a.Input(input.Event{Kind: input.MouseUp, Key: keycode.MOUSE1})
	a.Input(click)
	if a.director.Dragging() != scene.Elephant || a.director.Mode() != scene.Manual {
		t.Errorf("second click: dragging %q, mode %v", a.director.Dragging(), a.director.Mode())
	}
}

func TestPostedEventsRunOnLoop(t *testing.T) {
	a := testApp()
	defer a.stop()
	quit := false
	a.quit = func() { quit = true }
	p := posted{loop: a.loop, h: a}

	p.Input(input.Event{Kind: input.KeyDown, Key: keycode.SPACE})
	p.Quit()
	if a.director.State() == scene.Running || quit {
		t.Fatalf("events handled before the frame")
	}
	a.loop.Step()
	if a.director.State() != scene.Running || !quit {
		t.Errorf("after frame: scene %v, quit %v", a.director.State(), quit)
	}
}

func TestSettingKeys(t *testing.T) {
	a := testApp()
	defer a.stop()
	a.Input(input.Event{Kind: input.MouseDown, Key: keycode.MOUSE1})

	press := func(k keycode.KeyCode) {
		a.Input(input.Event{Kind: input.KeyDown, Key: k})
		a.Input(input.Event{Kind: input.KeyUp, Key: k})
	}
	press(keycode.KeyCode('2'))
	press(keycode.KeyCode(']'))
	press(keycode.KeyCode('='))
	cs := a.director.Settings()[scene.Wind]
	def := scene.Defaults()[scene.Wind]
	if cs.Volume <= def.Volume || cs.Gain != 1 {
		t.Errorf("wind after keys = %+v", cs)
	}
	press(keycode.KeyCode('r'))
	if got := a.director.Settings()[scene.Wind]; got != def {
		t.Errorf("wind after reset = %+v, want %+v", got, def)
	}
}
