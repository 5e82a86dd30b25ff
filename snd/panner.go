// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"math"

	"soundscape/device"
	"soundscape/math/vec"

	"github.com/chewxy/math32"
	"github.com/gopxl/beep/v2"
)

type PanningModel int

const (
	HRTF PanningModel = iota
	EqualPower
)

type DistanceModel int

const (
	Inverse DistanceModel = iota
	Linear
	Exponential
)

const (
	headRadius   = 0.0875 // m
	speedOfSound = 343.0  // m/s
	shadowCutoff = 1500.0 // Hz, far ear at 90°
)

// distanceGain is the attenuation at distance d.
func distanceGain(model DistanceModel, d, ref, maxDist, rolloff float64) float64 {
	switch model {
	case Linear:
		if maxDist <= ref {
			return 1
		}
		d = math.Max(ref, math.Min(d, maxDist))
		rolloff = math.Max(0, math.Min(rolloff, 1))
		return 1 - rolloff*(d-ref)/(maxDist-ref)
	case Exponential:
		if ref <= 0 {
			return 1
		}
		return math.Pow(math.Max(d, ref)/ref, -rolloff)
	}
	den := ref + rolloff*(math.Max(d, ref)-ref)
	if den <= 0 {
		return 1
	}
	return ref / den
}

// azimuth returns the horizontal angle of pos seen from l in degrees,
// 0 is ahead, positive to the right, in (-180,180].
func azimuth(l device.Listener, pos vec.Vec3) float32 {
	dir := vec.Sub(pos, l.Position)
	if dir.Length() == 0 {
		return 0
	}
	dir = dir.Normalize()
	front := l.Forward.Normalize()
	right := vec.Cross(front, l.Up).Normalize()
	up := vec.Cross(right, front)

	proj := vec.Sub(dir, up.Scale(vec.Dot(dir, up)))
	if proj.Length() == 0 {
		return 0
	}
	proj = proj.Normalize()
	az := math32.Acos(clampUnit(vec.Dot(proj, right))) * 180 / math32.Pi
	if vec.Dot(proj, front) < 0 {
		az = 360 - az
	}
	if az <= 270 {
		return 90 - az
	}
	return 450 - az
}

func clampUnit(v float32) float32 {
	return math32.Max(-1, math32.Min(v, 1))
}

// fold maps an azimuth onto the frontal half plane [-90,90].
func fold(az float64) float64 {
	if az < -90 {
		return -180 - az
	}
	if az > 90 {
		return 180 - az
	}
	return az
}

// equalPower returns the left and right gains for azimuth az in degrees.
func equalPower(az float64) (float64, float64) {
	x := (fold(az) + 90) / 180
	return math.Cos(x * math.Pi / 2), math.Sin(x * math.Pi / 2)
}

// hrtfGains is a softer level difference than equalPower; most of the
// localisation comes from the interaural delay and the head shadow.
func hrtfGains(az float64) (float64, float64) {
	p := math.Sin(fold(az) * math.Pi / 180)
	return math.Sqrt((1 - 0.6*p) / 2), math.Sqrt((1 + 0.6*p) / 2)
}

// itd returns the interaural time difference in seconds (Woodworth).
func itd(az float64) float64 {
	a := math.Abs(fold(az)) * math.Pi / 180
	return headRadius / speedOfSound * (a + math.Sin(a))
}

const maxDelay = 128

// panner positions a mono signal relative to the listener of dev. It reads
// the listener inside Stream, where the device lock is held.
type panner struct {
	in      beep.Streamer
	dev     *device.Context
	rate    float64
	closed  bool
	model   PanningModel
	dist    DistanceModel
	ref     float64
	maxDist float64
	rolloff float64
	pos     vec.Vec3

	primed      bool
	left, right float64 // gains at the end of the last block
	hist        [maxDelay]float64
	histPos     int
	lpL, lpR    float64
}

func newPanner(in beep.Streamer, dev *device.Context) *panner {
	return &panner{
		in:      in,
		dev:     dev,
		rate:    float64(dev.SampleRate()),
		model:   HRTF,
		dist:    Inverse,
		ref:     1,
		maxDist: 10000,
		rolloff: 1,
	}
}

// target computes the gains, delay and shadow coefficients for the current
// listener and position.
func (p *panner) target() (l, r, delay, shL, shR float64) {
	li := p.dev.ListenerLocked()
	d := float64(vec.Distance(p.pos, li.Position))
	g := distanceGain(p.dist, d, p.ref, p.maxDist, p.rolloff)
	az := float64(azimuth(li, p.pos))
	if p.model == EqualPower {
		l, r = equalPower(az)
		return l * g, r * g, 0, 0, 0
	}
	l, r = hrtfGains(az)
	delay = math.Min(itd(az)*p.rate, maxDelay-1)
	// far ear shadow, one pole low pass
	side := math.Abs(math.Sin(fold(az) * math.Pi / 180))
	cut := p.rate/2 - (p.rate/2-shadowCutoff)*side
	sh := math.Exp(-2 * math.Pi * cut / p.rate)
	if fold(az) >= 0 {
		return l * g, r * g, delay, sh, 0
	}
	return l * g, r * g, -delay, 0, sh
}

func (p *panner) Stream(samples [][2]float64) (int, bool) {
	if p.closed {
		return 0, false
	}
	n, ok := p.in.Stream(samples)
	if n == 0 {
		return 0, ok
	}
	l, r, delay, shL, shR := p.target()
	if !p.primed {
		p.left, p.right, p.primed = l, r, true
	}
	dl, dr := 0, 0
	if delay > 0 {
		dl = int(math.Round(delay))
	} else {
		dr = int(math.Round(-delay))
	}
	step := 1 / float64(n)
	for i := range samples[:n] {
		mono := (samples[i][0] + samples[i][1]) / 2
		p.hist[p.histPos] = mono
		xl := p.hist[(p.histPos-dl+maxDelay)%maxDelay]
		xr := p.hist[(p.histPos-dr+maxDelay)%maxDelay]
		p.histPos = (p.histPos + 1) % maxDelay

		p.lpL = (1-shL)*xl + shL*p.lpL
		p.lpR = (1-shR)*xr + shR*p.lpR

		k := float64(i+1) * step
		samples[i][0] = p.lpL * (p.left + (l-p.left)*k)
		samples[i][1] = p.lpR * (p.right + (r-p.right)*k)
	}
	p.left, p.right = l, r
	return n, ok
}

func (p *panner) Err() error {
	return p.in.Err()
}
