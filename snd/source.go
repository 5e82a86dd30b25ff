// SPDX-License-Identifier: GPL-2.0-or-later

// Package snd implements positional sound sources. Each source owns a fixed
// chain of playback slot, filter, gain and panner feeding the device.
package snd

import (
	"log"

	"soundscape/device"
	"soundscape/math"
	"soundscape/math/vec"
	"soundscape/synth"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2/effects"
)

type State int

const (
	Idle State = iota
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Source is one emitter. All methods are safe to call while the device pulls
// audio.
type Source struct {
	id     uuid.UUID
	dev    *device.Context
	slot   *slot
	filter *biquad
	gain   *effects.Gain
	pan    *panner
	volume float64
	state  State
	units  int // live playback units, at most one
	closed bool
}

// New builds the chain and connects it to dev.
func New(dev *device.Context) *Source {
	s := &Source{
		id:     uuid.Must(uuid.NewV7()),
		dev:    dev,
		slot:   &slot{},
		volume: 1,
	}
	s.filter = newBiquad(s.slot, dev.SampleRate())
	s.gain = &effects.Gain{Streamer: s.filter}
	s.pan = newPanner(s.gain, dev)
	dev.Connect(s.pan)
	log.Printf("sound source %v created", s.id)
	return s
}

func (s *Source) ID() uuid.UUID {
	return s.id
}

func (s *Source) SetPosition(p vec.Vec3) {
	s.dev.Lock()
	s.pan.pos = p
	s.dev.Unlock()
}

func (s *Source) Position() vec.Vec3 {
	s.dev.Lock()
	defer s.dev.Unlock()
	return s.pan.pos
}

// SetVolume sets the linear gain. Negative values are clamped to 0.
func (s *Source) SetVolume(v float64) {
	v = math.NonNegative(v)
	s.dev.Lock()
	s.volume = v
	// effects.Gain scales by 1+Gain
	s.gain.Gain = v - 1
	s.dev.Unlock()
}

func (s *Source) Volume() float64 {
	s.dev.Lock()
	defer s.dev.Unlock()
	return s.volume
}

// SetFilter changes the filter. freq is clamped below the Nyquist frequency,
// a q <= 0 selects DefaultQ.
func (s *Source) SetFilter(kind FilterKind, freq, q float64) {
	s.dev.Lock()
	s.filter.set(kind, freq, q)
	s.dev.Unlock()
}

// SetFilterGain sets the gain in dB used by shelving and peaking filters.
func (s *Source) SetFilterGain(db float64) {
	s.dev.Lock()
	s.filter.setGain(db)
	s.dev.Unlock()
}

// Filter returns the current filter parameters after clamping.
func (s *Source) Filter() (FilterKind, float64, float64) {
	s.dev.Lock()
	defer s.dev.Unlock()
	return s.filter.kind, s.filter.freq, s.filter.q
}

func (s *Source) SetPanningModel(m PanningModel) {
	s.dev.Lock()
	s.pan.model = m
	s.dev.Unlock()
}

func (s *Source) SetDistanceModel(m DistanceModel, ref, maxDist, rolloff float64) {
	s.dev.Lock()
	s.pan.dist = m
	s.pan.ref = ref
	s.pan.maxDist = maxDist
	s.pan.rolloff = rolloff
	s.dev.Unlock()
}

// AttachBuffer stops and releases the current playback unit and binds a new
// one to buf. It does not start playback.
func (s *Source) AttachBuffer(buf *synth.Buffer, loop bool) error {
	u, err := newUnit(buf, loop)
	if err != nil {
		return err
	}
	s.dev.Lock()
	defer s.dev.Unlock()
	if old := s.slot.unit; old != nil {
		old.stop()
		s.slot.unit = nil
		s.units--
	}
	s.slot.unit = u
	s.units++
	s.state = Idle
	return nil
}

// Start plays the attached buffer. Without one it does nothing. A unit plays
// once: after Stop or the end of a one-shot buffer, Start is a no-op until
// AttachBuffer binds a new unit.
func (s *Source) Start() {
	s.dev.Lock()
	defer s.dev.Unlock()
	u := s.slot.unit
	if u == nil || u.done || s.closed {
		return
	}
	u.playing = true
	s.state = Playing
}

// Stop halts playback. Stopping a stopped source is not an error.
func (s *Source) Stop() {
	s.dev.Lock()
	defer s.dev.Unlock()
	s.stop()
}

func (s *Source) stop() {
	if u := s.slot.unit; u != nil {
		u.stop()
	}
	s.state = Stopped
}

func (s *Source) State() State {
	s.dev.Lock()
	defer s.dev.Unlock()
	if s.state == Playing && !s.slot.unit.playing {
		s.state = Stopped
	}
	return s.state
}

// Close stops the source and disconnects its chain from the device.
func (s *Source) Close() {
	s.dev.Lock()
	if s.closed {
		s.dev.Unlock()
		return
	}
	s.stop()
	if s.slot.unit != nil {
		s.slot.unit = nil
		s.units--
	}
	s.closed = true
	s.pan.closed = true
	s.dev.Unlock()
	log.Printf("sound source %v closed", s.id)
}
