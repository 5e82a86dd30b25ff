// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"math"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

func TestParseFilterKind(t *testing.T) {
	for k := Lowpass; k <= Allpass; k++ {
		got, err := ParseFilterKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseFilterKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, err := ParseFilterKind(" HighPass "); err != nil || got != Highpass {
		t.Errorf("ParseFilterKind mixed case = %v, %v", got, err)
	}
	if _, err := ParseFilterKind("comb"); !errors.Is(err, ErrUnknownFilterKind) {
		t.Errorf("ParseFilterKind(comb) = %v", err)
	}
	if FilterKind(42).String() != "unknown" {
		t.Errorf("out of range kind name = %q", FilterKind(42).String())
	}
}

func sine(freq, rate float64) beep.Streamer {
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			v := math.Sin(2 * math.Pi * freq * float64(i) / rate)
			samples[j] = [2]float64{v, v}
			i++
		}
		return len(samples), true
	})
}

// steadyRMS filters a sine and returns the RMS after the transient.
func steadyRMS(kind FilterKind, cutoff, tone float64) float64 {
	return gainedRMS(kind, cutoff, tone, 0)
}

func gainedRMS(kind FilterKind, cutoff, tone, db float64) float64 {
	const rate = 8000
	f := newBiquad(sine(tone, rate), rate)
	f.set(kind, cutoff, DefaultQ)
	f.setGain(db)
	return rms(f)
}

func rms(f *biquad) float64 {
	buf := make([][2]float64, 4000)
	f.Stream(buf)
	f.Stream(buf)
	sum := 0.0
	for _, s := range buf {
		sum += s[0] * s[0]
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestBiquadResponse(t *testing.T) {
	in := math.Sqrt2 / 2
	tests := []struct {
		name   string
		kind   FilterKind
		cutoff float64
		tone   float64
		pass   bool
	}{
		{"lowpass passes low", Lowpass, 1000, 100, true},
		{"lowpass stops high", Lowpass, 200, 3000, false},
		{"highpass stops low", Highpass, 2000, 50, false},
		{"highpass passes high", Highpass, 200, 3000, true},
		{"allpass passes", Allpass, 350, 1000, true},
		{"notch stops centre", Notch, 1000, 1000, false},
	}
	for _, tt := range tests {
		rms := steadyRMS(tt.kind, tt.cutoff, tt.tone)
		if tt.pass && math.Abs(rms-in) > 0.1 {
			t.Errorf("%s: rms %v, want about %v", tt.name, rms, in)
		}
		if !tt.pass && rms > 0.1 {
			t.Errorf("%s: rms %v, want attenuated", tt.name, rms)
		}
	}
}

func TestBiquadGain(t *testing.T) {
	in := math.Sqrt2 / 2
	tests := []struct {
		kind FilterKind
		db   float64
		want float64
	}{
		{Peaking, 6, in * math.Pow(10, 6.0/20)},
		{Peaking, -6, in * math.Pow(10, -6.0/20)},
		{Lowshelf, 12, in * math.Pow(10, 12.0/20)},
		{Highshelf, 12, in},
		{Lowpass, 12, in},
	}
	for _, tt := range tests {
		// the tone sits at the peak centre, far below the shelf corners
		cutoff := 100.0
		if tt.kind == Lowshelf || tt.kind == Highshelf {
			cutoff = 2000
		}
		got := gainedRMS(tt.kind, cutoff, 100, tt.db)
		if math.Abs(got-tt.want) > 0.1*tt.want {
			t.Errorf("%v %+v dB: rms %v, want %v", tt.kind, tt.db, got, tt.want)
		}
	}
}

func TestBiquadIgnoresNaN(t *testing.T) {
	const rate = 8000
	f := newBiquad(sine(100, rate), rate)
	f.set(Lowpass, math.NaN(), DefaultQ)
	f.setGain(math.NaN())
	if f.freq != defaultFilterFreq || f.gain != 0 {
		t.Errorf("NaN changed freq %v gain %v", f.freq, f.gain)
	}
	f.set(Lowpass, 1000, DefaultQ)
	got := rms(f)
	if math.IsNaN(got) || math.Abs(got-math.Sqrt2/2) > 0.1 {
		t.Errorf("rms after NaN and valid set = %v", got)
	}
}
