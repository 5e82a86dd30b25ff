// SPDX-License-Identifier: GPL-2.0-or-later

// Package synth generates procedural sample buffers: colored noise and a
// bird like chirp.
package synth

import (
	"math"
	"time"

	"soundscape/rand"

	"github.com/gopxl/beep/v2"
)

const (
	ChirpDuration = 500 * time.Millisecond

	pinkGain  = 0.11
	brownGain = 3.5
)

// Synthesizer creates a fresh buffer on every call. It is not safe for
// concurrent use since it shares one random source.
type Synthesizer struct {
	rate beep.SampleRate
	rnd  rand.Source
}

func New(rate beep.SampleRate, rnd rand.Source) *Synthesizer {
	if rnd == nil {
		rnd = rand.NewTimeSeeded()
	}
	return &Synthesizer{rate: rate, rnd: rnd}
}

func (s *Synthesizer) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *Synthesizer) white() float64 {
	return s.rnd.Float64()*2 - 1
}

// PinkNoise uses Paul Kellet's refined filter, roughly 1/f.
func (s *Synthesizer) PinkNoise(d time.Duration) *Buffer {
	data := make([]float64, s.rate.N(d))
	var b0, b1, b2, b3, b4, b5, b6 float64
	for i := range data {
		w := s.white()
		b0 = 0.99886*b0 + w*0.0555179
		b1 = 0.99332*b1 + w*0.0750759
		b2 = 0.96900*b2 + w*0.1538520
		b3 = 0.86650*b3 + w*0.3104856
		b4 = 0.55000*b4 + w*0.5329522
		b5 = -0.7616*b5 - w*0.0168980
		data[i] = (b0 + b1 + b2 + b3 + b4 + b5 + b6 + w*0.5362) * pinkGain
		b6 = w * 0.115926
	}
	return NewBuffer(s.rate, data)
}

func (s *Synthesizer) WhiteNoise(d time.Duration) *Buffer {
	data := make([]float64, s.rate.N(d))
	for i := range data {
		data[i] = s.white()
	}
	return NewBuffer(s.rate, data)
}

// BrownNoise is a leaky integrator over white noise, roughly 1/f².
func (s *Synthesizer) BrownNoise(d time.Duration) *Buffer {
	data := make([]float64, s.rate.N(d))
	last := 0.0
	for i := range data {
		last = (last + 0.02*s.white()) / 1.02
		data[i] = last * brownGain
	}
	return NewBuffer(s.rate, data)
}

// Chirp is a falling sweep with a fast wobble and a linear decay.
func (s *Synthesizer) Chirp() *Buffer {
	data := make([]float64, s.rate.N(ChirpDuration))
	dur := ChirpDuration.Seconds()
	for i := range data {
		t := float64(i) / float64(s.rate)
		f := 2000 + math.Sin(t*50)*1000 - t*2000
		data[i] = math.Sin(2*math.Pi*f*t) * (1 - t/dur)
	}
	return NewBuffer(s.rate, data)
}
