// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	cmdl "soundscape/commandline"
	"soundscape/device"
	"soundscape/frame"
	"soundscape/input"
	"soundscape/keycode"
	"soundscape/listener"
	"soundscape/rand"
	"soundscape/scene"
	"soundscape/snd"
	"soundscape/snd/speaker"
	"soundscape/synth"
	"soundscape/window"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

const activationTimeout = 5 * time.Second

var (
	colors = map[scene.Category]window.Color{
		scene.Water:    {B: 255},
		scene.Elephant: {R: 170, G: 170, B: 170},
		scene.Birds:    {R: 255, G: 255},
	}
	startColor = window.Color{G: 255}
)

// app is the demo: it connects the window to the scene. Its handler methods
// run on the frame loop goroutine.
type app struct {
	dev      *device.Context
	loop     *frame.Loop
	bus      *input.Bus
	director *scene.Director
	tracker  *listener.Tracker
	title    func(string)
	quit     func()

	observer listener.Transform
	selected scene.Category
}

func newApp(dev *device.Context, loop *frame.Loop, rnd, noise rand.Source) *app {
	a := &app{
		dev:      dev,
		loop:     loop,
		bus:      &input.Bus{},
		title:    func(string) {},
		quit:     func() {},
		selected: scene.Water,
	}
	a.director = scene.New(dev, loop,
		scene.WithRand(rnd),
		scene.WithSynthesizer(synth.New(dev.SampleRate(), noise)),
		scene.WithDebug(cmdl.Debug()))
	a.tracker = listener.New(dev, loop, a.bus,
		listener.WithObserver(a.director.ListenerMoved),
		listener.WithObserver(func(t listener.Transform) { a.observer = t }))
	a.observer = a.tracker.Transform()
	return a
}

func runLive() {
	rate := beep.SampleRate(cmdl.SampleRate())
	var sink device.Sink = &device.Offline{}
	if cmdl.Sound() {
		sink = speaker.New(0)
	}
	dev := device.New(sink, rate)
	if err := dev.Acquire(); err != nil {
		log.Fatalf("Could not initialize audio: %v", err)
	}
	defer dev.Close()

	a := newApp(dev, frame.New(nil), newRand(0), newRand(1))

	win, err := window.Open("soundscape - click to start", cmdl.Width(), cmdl.Height())
	if err != nil {
		log.Fatalf("Could not open window: %v", err)
	}
	defer win.Close()
	a.title = win.SetTitle

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.quit = cancel

	interval := frame.DefaultInterval
	if cmdl.FPS() > 0 {
		interval = time.Second / time.Duration(cmdl.FPS())
	}
	go pump(ctx, win, posted{loop: a.loop, h: a}, interval)
	a.loop.Request(func(frame.Frame) { win.Draw(a.view()) })
	if err := a.loop.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("frame loop: %v", err)
	}
	a.stop()
}

// posted hands window events to the frame loop, they are applied at the
// start of the next frame.
type posted struct {
	loop *frame.Loop
	h    window.Handler
}

func (p posted) Input(e input.Event) {
	p.loop.Post(func() { p.h.Input(e) })
}

func (p posted) Quit() {
	p.loop.Post(p.h.Quit)
}

func pump(ctx context.Context, win *window.Window, h window.Handler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			win.Poll(h)
		}
	}
}

func (a *app) view() window.View {
	v := window.View{
		Listener: a.observer.Position,
		Yaw:      a.observer.Yaw,
		Points: []window.Point{
			{ID: "start", Color: startColor},
		},
	}
	positions := a.director.Positions()
	for _, c := range scene.Categories {
		p, ok := positions[c]
		if !ok {
			continue
		}
		v.Points = append(v.Points, window.Point{
			ID:        string(c),
			Position:  p,
			Color:     colors[c],
			Draggable: scene.Draggable(c),
		})
	}
	return v
}

func (a *app) Quit() {
	a.quit()
}

func (a *app) Input(e input.Event) {
	switch e.Kind {
	case input.MouseDown, input.KeyDown:
		// the start gesture does nothing else, it must not grab a point
		if a.director.State() != scene.Running && e.Key != keycode.ESCAPE {
			a.start()
			return
		}
	}
	switch e.Kind {
	case input.MouseDown:
		if e.Target != "" {
			if err := a.director.BeginDrag(scene.Category(e.Target)); err != nil {
				log.Printf("drag %s: %v", e.Target, err)
			}
			return
		}
	case input.MouseMove:
		if a.director.Dragging() != "" {
			a.director.DragBy(e.DX, e.DY)
			return
		}
	case input.MouseUp:
		a.director.EndDrag()
	case input.KeyDown:
		if a.key(e.Key) {
			return
		}
	}
	a.bus.Publish(e)
}

// start is run from a user gesture, as the audio platform requires.
func (a *app) start() {
	a.tracker.Activate()
	ctx, cancel := context.WithTimeout(context.Background(), activationTimeout)
	defer cancel()
	st, err := a.director.Start(ctx)
	if err != nil {
		a.tracker.Deactivate()
		if errors.Is(err, device.ErrNoDevice) {
			log.Fatalf("Could not start audio: %v", err)
		}
		log.Printf("start: %v, audio is %v", err, st)
		return
	}
	a.title("soundscape - WASD to move, drag to look, Esc to stop")
	log.Printf("audio is %v", st)
}

func (a *app) stop() {
	a.director.Stop()
	a.tracker.Deactivate()
}

// key handles the settings keys and reports whether k was used.
func (a *app) key(k keycode.KeyCode) bool {
	switch k {
	case keycode.ESCAPE:
		a.stop()
		a.title("soundscape - click to start")
	case keycode.KeyCode('1'), keycode.KeyCode('2'), keycode.KeyCode('3'), keycode.KeyCode('4'):
		a.selected = scene.Categories[int(k-'1')]
		a.report()
	case keycode.KeyCode('['), keycode.KeyCode(']'):
		cs := a.director.Settings()[a.selected]
		step := 0.05
		if k == keycode.KeyCode('[') {
			step = -step
		}
		a.update(scene.ParamVolume, fmt.Sprint(cs.Volume+step))
	case keycode.KeyCode(','), keycode.KeyCode('.'):
		cs := a.director.Settings()[a.selected]
		f := cs.Freq * 1.25
		if k == keycode.KeyCode(',') {
			f = cs.Freq / 1.25
		}
		a.update(scene.ParamFreq, fmt.Sprint(math.Round(f)))
	case keycode.KeyCode('-'), keycode.KeyCode('='):
		cs := a.director.Settings()[a.selected]
		step := 1.0
		if k == keycode.KeyCode('-') {
			step = -step
		}
		a.update(scene.ParamGain, fmt.Sprint(cs.Gain+step))
	case keycode.TAB:
		cs := a.director.Settings()[a.selected]
		next := (cs.Filter + 1) % (snd.Allpass + 1)
		a.update(scene.ParamFilter, next.String())
	case keycode.KeyCode('r'):
		a.director.ResetSettings()
		a.report()
	case keycode.SPACE:
		a.toggleAudio()
	default:
		return false
	}
	return true
}

func (a *app) update(param, value string) {
	if err := a.director.UpdateSetting(string(a.selected), param, value); err != nil {
		log.Printf("setting: %v", err)
		return
	}
	a.report()
}

func (a *app) report() {
	cs := a.director.Settings()[a.selected]
	log.Printf("%s: volume %.2f, %s %.0f Hz, Q %.2f, gain %+.0f dB",
		a.selected, cs.Volume, cs.Filter, cs.Freq, cs.Q, cs.Gain)
}

func (a *app) toggleAudio() {
	if a.dev.State() == device.Running {
		if err := a.dev.Suspend(); err != nil {
			log.Printf("suspend: %v", err)
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), activationTimeout)
	defer cancel()
	if _, err := a.dev.Activate(ctx); err != nil {
		log.Printf("resume: %v", err)
	}
}
