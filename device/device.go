// SPDX-License-Identifier: GPL-2.0-or-later

// Package device owns the audio output: the activation state machine, the
// listener parameters and the destination every source chain is connected to.
package device

import (
	"context"
	"encoding/binary"
	"io"
	"log"
	"math"
	"sync"

	"soundscape/math/vec"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

// DefaultSampleRate is the output rate used when none is configured.
const DefaultSampleRate = beep.SampleRate(44100)

type State int

const (
	Uninitialized State = iota
	Suspended
	Running
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	}
	return "unknown"
}

// Sink is the platform output the mixed signal is written to.
type Sink interface {
	// Open prepares output at rate reading float32 little endian stereo
	// frames from src. The returned channel is closed once the platform has
	// granted an audio session.
	Open(rate beep.SampleRate, src io.Reader) (ready <-chan struct{}, err error)
	Resume() error
	Suspend() error
	Close() error
}

// Listener is the position and orientation of the single listener.
type Listener struct {
	Position vec.Vec3
	Forward  vec.Vec3
	Up       vec.Vec3
}

// DefaultListener stands at the origin looking down -Z.
var DefaultListener = Listener{
	Forward: vec.Vec3{X: 0, Y: 0, Z: -1},
	Up:      vec.UnitY,
}

// Context is the process wide audio device. Construct one at start up and
// pass it to every component needing audio.
type Context struct {
	// trans orders state transitions. The sink is called with only trans
	// held because it may pull the mix, which takes mu.
	trans    sync.Mutex
	mu       sync.Mutex
	sink     Sink
	rate     beep.SampleRate
	state    State
	ready    <-chan struct{}
	openErr  error
	closed   bool
	mixer    beep.Mixer
	listener Listener
	mix      [][2]float64
}

func New(sink Sink, rate beep.SampleRate) *Context {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Context{
		sink:     sink,
		rate:     rate,
		listener: DefaultListener,
	}
}

func (c *Context) SampleRate() beep.SampleRate {
	return c.rate
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Acquire opens the sink on first use. An open failure is remembered and
// returned by every later call.
func (c *Context) Acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquire()
}

func (c *Context) acquire() error {
	if c.closed {
		return ErrClosed
	}
	if c.openErr != nil {
		return c.openErr
	}
	if c.state != Uninitialized {
		return nil
	}
	if c.sink == nil {
		c.openErr = errors.Wrap(ErrNoDevice, "no sink configured")
		return c.openErr
	}
	ready, err := c.sink.Open(c.rate, reader{c})
	if err != nil {
		c.openErr = errors.Wrapf(ErrNoDevice, "open output: %v", err)
		return c.openErr
	}
	c.ready = ready
	c.state = Suspended
	log.Printf("audio device opened at %d Hz", c.rate)
	return nil
}

// Activate brings the device to Running. It has to be called from a user
// initiated action. It waits for the platform to grant the session; if ctx
// ends first the state is left as it was and ctx.Err() is returned.
func (c *Context) Activate(ctx context.Context) (State, error) {
	c.mu.Lock()
	if err := c.acquire(); err != nil {
		s := c.state
		c.mu.Unlock()
		return s, err
	}
	if c.state == Running {
		c.mu.Unlock()
		return Running, nil
	}
	ready := c.ready
	c.mu.Unlock()

	select {
	case <-ready:
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}

	c.trans.Lock()
	defer c.trans.Unlock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Uninitialized, ErrClosed
	}
	if c.state == Running {
		c.mu.Unlock()
		return Running, nil
	}
	c.mu.Unlock()

	if err := c.sink.Resume(); err != nil {
		return c.State(), errors.Wrap(err, "resume output")
	}
	c.mu.Lock()
	c.state = Running
	c.mu.Unlock()
	log.Printf("audio device running")
	return Running, nil
}

// Suspend pauses output. Sources keep their state, the mix is silent until
// the next Activate.
func (c *Context) Suspend() error {
	c.trans.Lock()
	defer c.trans.Unlock()
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return nil
	}
	c.state = Suspended
	c.mu.Unlock()

	if err := c.sink.Suspend(); err != nil {
		return errors.Wrap(err, "suspend output")
	}
	return nil
}

func (c *Context) Close() error {
	c.trans.Lock()
	defer c.trans.Unlock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mixer.Clear()
	prev := c.state
	c.state = Uninitialized
	c.mu.Unlock()

	if prev == Uninitialized {
		return nil
	}
	return c.sink.Close()
}

// UpdateListener sets the listener transform. It may be called in any state;
// the values take effect in the mix once the device runs.
func (c *Context) UpdateListener(position, forward, up vec.Vec3) {
	c.mu.Lock()
	c.listener = Listener{Position: position, Forward: forward, Up: up}
	c.mu.Unlock()
}

func (c *Context) Listener() Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

// ListenerLocked returns the listener to streamers running inside Stream,
// where the lock is already held.
func (c *Context) ListenerLocked() Listener {
	return c.listener
}

// Lock serializes graph parameter changes against the output pulling the
// mix. Streamers connected with Connect must not call it from Stream.
func (c *Context) Lock() {
	c.mu.Lock()
}

func (c *Context) Unlock() {
	c.mu.Unlock()
}

// Connect adds s to the destination. It is dropped once it reports ok=false.
func (c *Context) Connect(s beep.Streamer) {
	c.mu.Lock()
	c.mixer.Add(s)
	c.mu.Unlock()
}

// Connections returns the number of streamers feeding the destination.
func (c *Context) Connections() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mixer.Len()
}

// Stream fills samples with the current mix. It is silence unless the
// device is running.
func (c *Context) Stream(samples [][2]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stream(samples)
}

func (c *Context) stream(samples [][2]float64) {
	if c.state != Running {
		clear(samples)
		return
	}
	n, _ := c.mixer.Stream(samples)
	clear(samples[n:])
}

// reader encodes the mix for sinks as float32 little endian stereo.
type reader struct {
	c *Context
}

const bytesPerFrame = 8

func (r reader) Read(p []byte) (int, error) {
	c := r.c
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cap(c.mix) < frames {
		c.mix = make([][2]float64, frames)
	}
	mix := c.mix[:frames]
	c.stream(mix)
	for i, s := range mix {
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame:], math.Float32bits(float32(s[0])))
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame+4:], math.Float32bits(float32(s[1])))
	}
	return frames * bytesPerFrame, nil
}
