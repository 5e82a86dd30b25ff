// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"context"
	"math"
	"testing"
	"time"

	"soundscape/device"
	"soundscape/frame"
	"soundscape/listener"
	"soundscape/math/vec"
	"soundscape/rand"
	"soundscape/snd"
	"soundscape/synth"

	"github.com/pkg/errors"
)

const eps = 1e-5

// script returns the queued values, then a value that never triggers.
type script struct {
	vals []float64
}

func (s *script) Float64() float64 {
	if len(s.vals) == 0 {
		return 0.99
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v
}

type fixture struct {
	dev     *device.Context
	loop    *frame.Loop
	rnd     *script
	markers []Marker
	d       *Director
}

func newFixture(t *testing.T, sink device.Sink) *fixture {
	t.Helper()
	var now time.Duration
	clock := func() time.Duration {
		now += frame.DefaultInterval
		return now
	}
	f := &fixture{
		dev:  device.New(sink, 8000),
		loop: frame.New(clock),
		rnd:  &script{},
	}
	f.d = New(f.dev, f.loop,
		WithRand(f.rnd),
		WithSynthesizer(synth.New(8000, rand.New(3))),
		WithMarker(func(m Marker) { f.markers = append(f.markers, m) }))
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	st, err := f.d.Start(context.Background())
	if err != nil || st != device.Running {
		t.Fatalf("Start = %v, %v", st, err)
	}
}

func (f *fixture) steps(n int) {
	for i := 0; i < n; i++ {
		f.loop.Step()
	}
}

func TestWaterVolume(t *testing.T) {
	tests := []struct {
		base, t, want float64
	}{
		{0.2, 0, 0.2},
		{0.2, math.Pi / 1.6, 0.25},
		{0.2, 3 * math.Pi / 1.6, 0.15},
		{0, 1, 0},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		if got := waterVolume(tt.base, tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("waterVolume(%v, %v) = %v, want %v", tt.base, tt.t, got, tt.want)
		}
	}
}

func TestElephantOrbit(t *testing.T) {
	tests := []struct {
		t    float64
		want vec.Vec3
	}{
		{0, vec.Vec3{X: 0, Y: 0, Z: 15}},
		{math.Pi, vec.Vec3{X: 15, Y: 0, Z: 0}},
		{2 * math.Pi, vec.Vec3{X: 0, Y: 0, Z: -15}},
	}
	for _, tt := range tests {
		if got := elephantOrbit(tt.t); !vec.Near(got, tt.want, eps) {
			t.Errorf("elephantOrbit(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestDragToWorld(t *testing.T) {
	tests := []struct {
		dx, dy, yaw float32
		wx, wz      float32
	}{
		{3, 6, 0, 1, 2},
		{3, 0, math.Pi / 2, 0, 1},
		{0, 3, math.Pi / 2, -1, 0},
	}
	for _, tt := range tests {
		wx, wz := dragToWorld(tt.dx, tt.dy, tt.yaw)
		if math.Abs(float64(wx-tt.wx)) > eps || math.Abs(float64(wz-tt.wz)) > eps {
			t.Errorf("dragToWorld(%v, %v, %v) = %v, %v, want %v, %v", tt.dx, tt.dy, tt.yaw, wx, wz, tt.wx, tt.wz)
		}
	}
}

func TestStart(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	if f.d.State() != NotStarted {
		t.Fatalf("state = %v", f.d.State())
	}
	f.start(t)
	f.start(t)
	if f.d.State() != Running || f.loop.Len() != 1 || f.dev.Connections() != 4 {
		t.Fatalf("state %v, %d tasks, %d connections", f.d.State(), f.loop.Len(), f.dev.Connections())
	}
	for _, c := range []Category{Water, Wind, Elephant} {
		if st := f.d.Source(c).State(); st != snd.Playing {
			t.Errorf("%s state = %v", c, st)
		}
	}
	if st := f.d.Source(Birds).State(); st != snd.Idle {
		t.Errorf("birds state = %v", st)
	}
	if got := f.d.Source(Wind).Position(); got != windPosition {
		t.Errorf("wind at %v", got)
	}
	if k, freq, q := f.d.Source(Elephant).Filter(); k != snd.Lowpass || freq != 150 || q != 5 {
		t.Errorf("elephant filter = %v %v %v", k, freq, q)
	}

	f.steps(1)
	if got := f.d.Source(Elephant).Position(); !vec.Near(got, vec.Vec3{Z: 15}, eps) {
		t.Errorf("elephant at first tick = %v", got)
	}
	if got := f.d.Source(Water).Volume(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("water volume at first tick = %v", got)
	}
	f.steps(1)
	if got := f.d.Source(Water).Volume(); math.Abs(got-waterVolume(0.2, TimeStep)) > 1e-9 {
		t.Errorf("water volume at second tick = %v", got)
	}
}

func TestStartCancelled(t *testing.T) {
	f := newFixture(t, &device.Offline{Gate: make(chan struct{})})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.d.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start = %v, want canceled", err)
	}
	if f.d.State() != NotStarted || f.loop.Len() != 0 || f.dev.Connections() != 0 {
		t.Errorf("cancelled start changed the scene")
	}
}

func TestStartNoDevice(t *testing.T) {
	f := newFixture(t, &device.Offline{Fail: errors.New("no backend")})
	if _, err := f.d.Start(context.Background()); !errors.Is(err, device.ErrNoDevice) {
		t.Errorf("Start = %v, want ErrNoDevice", err)
	}
}

func TestManualDragFreezesOrbit(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	if err := f.d.BeginDrag(Elephant); !errors.Is(err, ErrNotRunning) {
		t.Errorf("BeginDrag before start = %v", err)
	}
	f.start(t)
	f.steps(10)
	if err := f.d.BeginDrag(Wind); !errors.Is(err, ErrNotDraggable) {
		t.Errorf("BeginDrag(wind) = %v", err)
	}
	if err := f.d.BeginDrag(Elephant); err != nil {
		t.Fatal(err)
	}
	if f.d.Mode() != Manual {
		t.Fatalf("mode = %v", f.d.Mode())
	}
	frozen := f.d.Positions()[Elephant]
	want := elephantOrbit(9 * TimeStep)
	if !vec.Near(frozen, want, eps) {
		t.Errorf("elephant at %v, want last orbit position %v", frozen, want)
	}
	f.steps(10)
	if got := f.d.Source(Elephant).Position(); got != frozen {
		t.Errorf("elephant moved to %v after drag began", got)
	}

	f.d.DragBy(3, 6)
	moved := vec.Vec3{X: frozen.X + 1, Z: frozen.Z + 2}
	if got := f.d.Source(Elephant).Position(); !vec.Near(got, moved, eps) {
		t.Errorf("dragged elephant at %v, want %v", got, moved)
	}
	f.d.EndDrag()
	f.d.DragBy(30, 30)
	f.steps(5)
	if got := f.d.Positions()[Elephant]; !vec.Near(got, moved, eps) || f.d.Mode() != Manual {
		t.Errorf("elephant at %v in mode %v after drag ended", got, f.d.Mode())
	}
}

func TestDragUsesListenerYaw(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	f.start(t)
	f.d.ListenerMoved(listener.Transform{Yaw: math.Pi / 2})
	if err := f.d.BeginDrag(Water); err != nil {
		t.Fatal(err)
	}
	f.d.DragBy(3, 0)
	want := vec.Add(waterStart, vec.Vec3{Z: 1})
	if got := f.d.Source(Water).Position(); !vec.Near(got, want, eps) {
		t.Errorf("water at %v, want %v", got, want)
	}
	if f.d.Mode() != Auto {
		t.Errorf("dragging water changed elephant mode")
	}
}

func TestChirpMarker(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	f.start(t)
	f.rnd.vals = []float64{0.001, 0.75, 0.25, 0.5}
	f.steps(1)

	want := vec.Vec3{X: 5, Y: 7.5, Z: -5}
	if len(f.markers) != 1 || !f.markers[0].Visible || !vec.Near(f.markers[0].Position, want, eps) {
		t.Fatalf("markers = %v", f.markers)
	}
	birds := f.d.Source(Birds)
	if birds.State() != snd.Playing || !vec.Near(birds.Position(), want, eps) {
		t.Errorf("birds %v at %v", birds.State(), birds.Position())
	}
	if _, ok := f.d.Positions()[Birds]; !ok {
		t.Errorf("bird missing from positions")
	}

	f.steps(100)
	if !f.d.Marker().Visible || len(f.markers) != 1 {
		t.Fatalf("marker cleared early")
	}
	f.steps(30)
	if f.d.Marker().Visible {
		t.Fatalf("marker still visible after %v", MarkerDuration)
	}
	if len(f.markers) != 2 || f.markers[1].Visible {
		t.Errorf("markers = %v", f.markers)
	}
	if _, ok := f.d.Positions()[Birds]; ok {
		t.Errorf("hidden bird in positions")
	}
}

func TestNoChirpAboveProbability(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	f.start(t)
	f.rnd.vals = []float64{ChirpProbability, 0.5, 0.99}
	f.steps(200)
	if len(f.markers) != 0 || f.d.Source(Birds).State() != snd.Idle {
		t.Errorf("chirp triggered: %v", f.markers)
	}
}

func TestStopAndRestart(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	f.start(t)
	f.rnd.vals = []float64{0.001, 0.5, 0.5, 0.5}
	f.steps(1)
	water := f.d.Source(Water)

	f.d.Stop()
	f.d.Stop()
	if f.d.State() != Stopped || f.loop.Len() != 0 {
		t.Fatalf("state %v with %d tasks", f.d.State(), f.loop.Len())
	}
	if water.State() != snd.Stopped {
		t.Errorf("water %v after Stop", water.State())
	}
	if f.d.Marker().Visible || len(f.markers) != 2 {
		t.Errorf("marker not cleared on Stop: %v", f.markers)
	}
	f.dev.Stream(make([][2]float64, 8))
	if f.dev.Connections() != 0 {
		t.Errorf("%d chains connected after Stop", f.dev.Connections())
	}
	if err := f.d.BeginDrag(Water); !errors.Is(err, ErrNotRunning) {
		t.Errorf("BeginDrag after Stop = %v", err)
	}

	f.start(t)
	if f.d.Source(Water) == water || f.dev.Connections() != 4 || f.loop.Len() != 1 {
		t.Errorf("restart did not rebuild the scene")
	}
}

func TestUpdateSetting(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	if err := f.d.UpdateSetting("wind", "volume", "0.9"); err != nil {
		t.Fatalf("update before start: %v", err)
	}
	f.start(t)
	if got := f.d.Source(Wind).Volume(); got != 0.9 {
		t.Errorf("wind volume = %v", got)
	}

	tests := []struct {
		category, param, value string
		err                    error
	}{
		{"fire", "volume", "1", ErrUnknownSetting},
		{"wind", "pitch", "1", ErrUnknownSetting},
		{"wind", "volume", "loud", ErrInvalidValue},
		{"wind", "freq", "NaN", ErrInvalidValue},
		{"birds", "filterType", "comb", snd.ErrUnknownFilterKind},
		{"birds", "filterType", "bandpass", nil},
		{"elephant", "volume", "0.4", nil},
	}
	for _, tt := range tests {
		err := f.d.UpdateSetting(tt.category, tt.param, tt.value)
		if tt.err == nil && err != nil || tt.err != nil && !errors.Is(err, tt.err) {
			t.Errorf("UpdateSetting(%s, %s, %s) = %v, want %v", tt.category, tt.param, tt.value, err, tt.err)
		}
	}
	if k, _, _ := f.d.Source(Birds).Filter(); k != snd.Bandpass {
		t.Errorf("birds filter = %v", k)
	}
	if got := f.d.Source(Elephant).Volume(); got != 0.4 {
		t.Errorf("elephant volume = %v", got)
	}

	if err := f.d.UpdateSetting("water", "volume", "1"); err != nil {
		t.Fatal(err)
	}
	f.steps(1)
	if got := f.d.Source(Water).Volume(); math.Abs(got-1) > 1e-9 {
		t.Errorf("water volume after tick = %v, want 1", got)
	}
	if got := f.d.Settings()[Water].Volume; got != 1 {
		t.Errorf("snapshot water volume = %v", got)
	}
}

func TestResetSettings(t *testing.T) {
	f := newFixture(t, &device.Offline{})
	f.start(t)
	for _, u := range [][3]string{
		{"wind", ParamVolume, "1.2"},
		{"birds", ParamFilter, "peaking"},
		{"birds", ParamGain, "9"},
	} {
		if err := f.d.UpdateSetting(u[0], u[1], u[2]); err != nil {
			t.Fatal(err)
		}
	}
	f.d.ResetSettings()
	if got := f.d.Source(Wind).Volume(); got != Defaults()[Wind].Volume {
		t.Errorf("wind volume after reset = %v", got)
	}
	if k, _, _ := f.d.Source(Birds).Filter(); k != Defaults()[Birds].Filter {
		t.Errorf("birds filter after reset = %v", k)
	}
	if got := f.d.Settings()[Birds]; got != Defaults()[Birds] {
		t.Errorf("birds settings after reset = %+v", got)
	}
}
