// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"math"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

type FilterKind int

const (
	Lowpass FilterKind = iota
	Highpass
	Bandpass
	Lowshelf
	Highshelf
	Peaking
	Notch
	Allpass
)

// DefaultQ is the resonance used when the caller has no preference.
const DefaultQ = 1.0

const (
	defaultFilterKind = Allpass
	defaultFilterFreq = 350.0
	minFilterFreq     = 10.0
)

var filterNames = [...]string{
	Lowpass:   "lowpass",
	Highpass:  "highpass",
	Bandpass:  "bandpass",
	Lowshelf:  "lowshelf",
	Highshelf: "highshelf",
	Peaking:   "peaking",
	Notch:     "notch",
	Allpass:   "allpass",
}

func (k FilterKind) String() string {
	if k < 0 || int(k) >= len(filterNames) {
		return "unknown"
	}
	return filterNames[k]
}

func ParseFilterKind(s string) (FilterKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range filterNames {
		if n == s {
			return FilterKind(k), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownFilterKind, "%q", s)
}

// biquad is a second order IIR filter after the RBJ audio EQ cookbook,
// run on both channels.
type biquad struct {
	in    beep.Streamer
	rate  float64
	kind  FilterKind
	freq  float64
	q     float64
	gain  float64 // dB, shelving and peaking only
	dirty bool

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

func newBiquad(in beep.Streamer, rate beep.SampleRate) *biquad {
	f := &biquad{in: in, rate: float64(rate)}
	f.set(defaultFilterKind, defaultFilterFreq, DefaultQ)
	return f
}

func (f *biquad) set(kind FilterKind, freq, q float64) {
	nyquist := f.rate / 2
	f.kind = kind
	if math.IsNaN(freq) {
		freq = f.freq
	}
	f.freq = math.Max(minFilterFreq, math.Min(freq, nyquist*0.99))
	if q <= 0 || math.IsNaN(q) {
		q = DefaultQ
	}
	f.q = q
	f.dirty = true
}

func (f *biquad) setGain(db float64) {
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return
	}
	f.gain = db
	f.dirty = true
}

func (f *biquad) coefficients() {
	w0 := 2 * math.Pi * f.freq / f.rate
	sin, cos := math.Sincos(w0)
	alpha := sin / (2 * f.q)
	A := math.Pow(10, f.gain/40)
	var b0, b1, b2, a0, a1, a2 float64
	switch f.kind {
	case Lowpass:
		b0, b1, b2 = (1-cos)/2, 1-cos, (1-cos)/2
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case Highpass:
		b0, b1, b2 = (1+cos)/2, -(1 + cos), (1+cos)/2
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case Bandpass:
		b0, b1, b2 = alpha, 0, -alpha
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case Notch:
		b0, b1, b2 = 1, -2*cos, 1
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	case Peaking:
		b0, b1, b2 = 1+alpha*A, -2*cos, 1-alpha*A
		a0, a1, a2 = 1+alpha/A, -2*cos, 1-alpha/A
	case Lowshelf, Highshelf:
		// shelf slope 1, Q is ignored
		s := sin / 2 * math.Sqrt2
		sa := 2 * math.Sqrt(A) * s
		if f.kind == Lowshelf {
			b0 = A * ((A + 1) - (A-1)*cos + sa)
			b1 = 2 * A * ((A - 1) - (A+1)*cos)
			b2 = A * ((A + 1) - (A-1)*cos - sa)
			a0 = (A + 1) + (A-1)*cos + sa
			a1 = -2 * ((A - 1) + (A+1)*cos)
			a2 = (A + 1) + (A-1)*cos - sa
		} else {
			b0 = A * ((A + 1) + (A-1)*cos + sa)
			b1 = -2 * A * ((A - 1) + (A+1)*cos)
			b2 = A * ((A + 1) + (A-1)*cos - sa)
			a0 = (A + 1) - (A-1)*cos + sa
			a1 = 2 * ((A - 1) - (A+1)*cos)
			a2 = (A + 1) - (A-1)*cos - sa
		}
	default: // Allpass
		b0, b1, b2 = 1-alpha, -2*cos, 1+alpha
		a0, a1, a2 = 1+alpha, -2*cos, 1-alpha
	}
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = a1/a0, a2/a0
	f.dirty = false
}

func (f *biquad) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.in.Stream(samples)
	if f.dirty {
		f.coefficients()
	}
	for i := range samples[:n] {
		for c := 0; c < 2; c++ {
			x := samples[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c], f.x1[c] = f.x1[c], x
			f.y2[c], f.y1[c] = f.y1[c], y
			samples[i][c] = y
		}
	}
	return n, ok
}

func (f *biquad) Err() error {
	return f.in.Err()
}
