// SPDX-License-Identifier: GPL-2.0-or-later

// Package scene drives the four emitters of the soundscape once per frame:
// it modulates the water, moves the elephant, triggers bird chirps and keeps
// the sources in line with the settings.
package scene

import (
	"context"
	"log"
	"math"
	"time"

	"soundscape/device"
	"soundscape/frame"
	"soundscape/listener"
	"soundscape/math/vec"
	"soundscape/rand"
	"soundscape/snd"
	"soundscape/synth"

	"github.com/chewxy/math32"
)

const (
	// TimeStep is the advance of the scene clock per tick.
	TimeStep = 0.01
	// ChirpProbability is the chance of a bird chirp per tick.
	ChirpProbability = 0.005
	MarkerDuration   = 2 * time.Second
	// DragScale is the number of screen pixels per world unit.
	DragScale = 3

	orbitRadius = 15
	orbitSpeed  = 0.5
	rippleSpeed = 0.8
	rippleDepth = 0.25

	waterNoise    = 10 * time.Second
	windNoise     = 10 * time.Second
	elephantNoise = 2 * time.Second
)

var (
	waterStart    = vec.Vec3{X: -5, Y: -1, Z: -10}
	windPosition  = vec.Vec3{X: 0, Y: 10, Z: 0}
	elephantStart = vec.Vec3{X: 10, Y: 0, Z: 10}
	birdStart     = vec.Vec3{X: 0, Y: 5, Z: -5}
)

type State int

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// MotionMode of the elephant. The only transition is Auto to Manual.
type MotionMode int

const (
	Auto MotionMode = iota
	Manual
)

func (m MotionMode) String() string {
	if m == Manual {
		return "manual"
	}
	return "auto"
}

// Marker is the last triggered bird chirp, for display.
type Marker struct {
	Position vec.Vec3
	Visible  bool
}

type Option func(*Director)

// WithRand sets the random source of the chirp trigger and placement.
func WithRand(r rand.Source) Option {
	return func(d *Director) {
		d.rnd = r
	}
}

func WithSynthesizer(s *synth.Synthesizer) Option {
	return func(d *Director) {
		d.synth = s
	}
}

// WithMarker sets the function told about bird markers appearing and
// disappearing.
func WithMarker(fn func(Marker)) Option {
	return func(d *Director) {
		d.marker = fn
	}
}

func WithSettings(s *Settings) Option {
	return func(d *Director) {
		d.settings = s
	}
}

// WithDebug logs every chirp.
func WithDebug(debug bool) Option {
	return func(d *Director) {
		d.debug = debug
	}
}

// Director owns the emitters. All methods must be called from the goroutine
// running the frame loop.
type Director struct {
	dev      *device.Context
	loop     *frame.Loop
	rnd      rand.Source
	synth    *synth.Synthesizer
	settings *Settings
	marker   func(Marker)
	debug    bool

	state   State
	task    frame.Handle
	sources map[Category]*snd.Source
	t       float64
	now     time.Duration

	mode        MotionMode
	water       vec.Vec3
	elephant    vec.Vec3
	bird        Marker
	birdExpires time.Duration
	dragging    Category
	yaw         float32
}

func New(dev *device.Context, loop *frame.Loop, opts ...Option) *Director {
	d := &Director{
		dev:      dev,
		loop:     loop,
		water:    waterStart,
		elephant: elephantStart,
	}
	for _, o := range opts {
		o(d)
	}
	if d.rnd == nil {
		d.rnd = rand.NewTimeSeeded()
	}
	if d.synth == nil {
		d.synth = synth.New(dev.SampleRate(), rand.NewTimeSeeded())
	}
	if d.settings == nil {
		d.settings = NewSettings()
	}
	return d
}

func (d *Director) State() State {
	return d.state
}

func (d *Director) Mode() MotionMode {
	return d.mode
}

func (d *Director) Settings() Snapshot {
	return d.settings.Snapshot()
}

// Source returns the emitter of c while the scene runs.
func (d *Director) Source(c Category) *snd.Source {
	return d.sources[c]
}

// Start is the entry point of the user's start gesture. It activates the
// device and, once that succeeded, builds the emitters and begins ticking.
// If activation fails or ctx ends first the scene does not change.
func (d *Director) Start(ctx context.Context) (device.State, error) {
	if d.state == Running {
		return d.dev.State(), nil
	}
	st, err := d.dev.Activate(ctx)
	if err != nil {
		return st, err
	}
	if err := d.build(); err != nil {
		d.teardown()
		return d.dev.State(), err
	}
	d.t = 0
	d.state = Running
	d.task = d.loop.Request(d.tick)
	log.Printf("scene started")
	return st, nil
}

func (d *Director) build() error {
	snap := d.settings.Snapshot()
	d.sources = make(map[Category]*snd.Source, len(Categories))

	loops := []struct {
		c   Category
		buf *synth.Buffer
		pos vec.Vec3
	}{
		{Water, d.synth.BrownNoise(waterNoise), d.water},
		{Wind, d.synth.PinkNoise(windNoise), windPosition},
		{Elephant, d.synth.WhiteNoise(elephantNoise), d.elephant},
	}
	for _, l := range loops {
		s := snd.New(d.dev)
		d.sources[l.c] = s
		if err := s.AttachBuffer(l.buf, true); err != nil {
			return err
		}
		s.SetPosition(l.pos)
		d.apply(l.c, snap[l.c])
		s.Start()
	}

	birds := snd.New(d.dev)
	d.sources[Birds] = birds
	birds.SetPosition(birdStart)
	d.apply(Birds, snap[Birds])
	return nil
}

// apply pushes cs to the emitter of c. The water volume is left to the
// tick.
func (d *Director) apply(c Category, cs CategorySettings) {
	s := d.sources[c]
	if s == nil {
		return
	}
	s.SetFilter(cs.Filter, cs.Freq, cs.Q)
	s.SetFilterGain(cs.Gain)
	if c != Water {
		s.SetVolume(cs.Volume)
	} else {
		s.SetVolume(waterVolume(cs.Volume, d.t))
	}
}

// Stop tears the scene down. Starting again rebuilds every emitter.
func (d *Director) Stop() {
	if d.state != Running {
		return
	}
	d.teardown()
	d.state = Stopped
	log.Printf("scene stopped")
}

func (d *Director) teardown() {
	d.task.Cancel()
	d.task = frame.Handle{}
	for _, c := range Categories {
		if s := d.sources[c]; s != nil {
			s.Stop()
			s.Close()
		}
	}
	d.sources = nil
	d.dragging = ""
	d.hideMarker()
}

func (d *Director) tick(f frame.Frame) {
	d.now = f.Time
	snap := d.settings.Snapshot()

	d.sources[Water].SetVolume(waterVolume(snap[Water].Volume, d.t))

	if d.mode == Auto {
		d.elephant = elephantOrbit(d.t)
		d.sources[Elephant].SetPosition(d.elephant)
	}

	if d.rnd.Float64() < ChirpProbability {
		d.chirp(snap[Birds])
	}
	if d.bird.Visible && d.now >= d.birdExpires {
		d.hideMarker()
	}
	d.t += TimeStep
}

func (d *Director) chirp(cs CategorySettings) {
	pos := vec.Vec3{
		X: float32((d.rnd.Float64() - 0.5) * 20),
		Z: float32((d.rnd.Float64() - 0.5) * 20),
	}
	pos.Y = float32(5 + d.rnd.Float64()*5)

	s := d.sources[Birds]
	if err := s.AttachBuffer(d.synth.Chirp(), false); err != nil {
		log.Printf("bird chirp: %v", err)
		return
	}
	s.SetVolume(cs.Volume)
	s.SetPosition(pos)
	s.Start()
	if d.debug {
		log.Printf("bird chirp at %v", pos)
	}

	// a new chirp restarts the marker timer
	d.bird = Marker{Position: pos, Visible: true}
	d.birdExpires = d.now + MarkerDuration
	if d.marker != nil {
		d.marker(d.bird)
	}
}

func (d *Director) hideMarker() {
	if !d.bird.Visible {
		return
	}
	d.bird.Visible = false
	if d.marker != nil {
		d.marker(d.bird)
	}
}

// Marker returns the current bird marker.
func (d *Director) Marker() Marker {
	return d.bird
}

// UpdateSetting changes a setting. While running the change reaches the
// emitter at once, the water volume on the next tick.
func (d *Director) UpdateSetting(category, param, value string) error {
	if err := d.settings.Update(category, param, value); err != nil {
		return err
	}
	c := Category(category)
	if cs, ok := d.settings.Get(c); ok && d.state == Running {
		d.apply(c, cs)
	}
	return nil
}

// ResetSettings restores the default settings and applies them to the
// running emitters.
func (d *Director) ResetSettings() {
	d.settings.Reset()
	if d.state != Running {
		return
	}
	snap := d.settings.Snapshot()
	for _, c := range Categories {
		d.apply(c, snap[c])
	}
}

// Positions returns the emitters shown on the radar. Birds is only present
// while its marker is visible.
func (d *Director) Positions() map[Category]vec.Vec3 {
	p := map[Category]vec.Vec3{
		Water:    d.water,
		Elephant: d.elephant,
	}
	if d.bird.Visible {
		p[Birds] = d.bird.Position
	}
	return p
}

// Draggable reports whether c can be moved with BeginDrag.
func Draggable(c Category) bool {
	return c == Water || c == Elephant
}

// BeginDrag starts moving c by hand. Dragging the elephant ends its orbit
// for good.
func (d *Director) BeginDrag(c Category) error {
	if d.state != Running {
		return ErrNotRunning
	}
	if !Draggable(c) {
		return ErrNotDraggable
	}
	d.dragging = c
	if c == Elephant && d.mode == Auto {
		d.mode = Manual
		log.Printf("elephant switched to manual motion")
	}
	return nil
}

// DragBy moves the dragged emitter by a screen space delta, rotated by the
// listener yaw.
func (d *Director) DragBy(dx, dy float32) {
	if d.dragging == "" {
		return
	}
	wdx, wdz := dragToWorld(dx, dy, d.yaw)
	switch d.dragging {
	case Water:
		d.water.X += wdx
		d.water.Z += wdz
		d.sources[Water].SetPosition(d.water)
	case Elephant:
		d.elephant.X += wdx
		d.elephant.Z += wdz
		d.sources[Elephant].SetPosition(d.elephant)
	}
}

func (d *Director) EndDrag() {
	d.dragging = ""
}

func (d *Director) Dragging() Category {
	return d.dragging
}

// ListenerMoved records the listener yaw for drag conversion; use it as a
// listener.Observer.
func (d *Director) ListenerMoved(t listener.Transform) {
	d.yaw = t.Yaw
}

func waterVolume(base, t float64) float64 {
	return math.Max(0, base+math.Sin(t*rippleSpeed)*base*rippleDepth)
}

func elephantOrbit(t float64) vec.Vec3 {
	s, c := math.Sincos(t * orbitSpeed)
	return vec.Vec3{X: float32(s * orbitRadius), Y: 0, Z: float32(c * orbitRadius)}
}

func dragToWorld(dx, dy, yaw float32) (float32, float32) {
	s, c := math32.Sincos(yaw)
	return (dx*c - dy*s) / DragScale, (dx*s + dy*c) / DragScale
}
