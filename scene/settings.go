// SPDX-License-Identifier: GPL-2.0-or-later

package scene

import (
	"math"
	"strconv"

	"soundscape/cvar"
	smath "soundscape/math"
	"soundscape/snd"

	"github.com/pkg/errors"
)

type Category string

const (
	Water    Category = "water"
	Wind     Category = "wind"
	Elephant Category = "elephant"
	Birds    Category = "birds"
)

// Categories lists every emitter in a fixed order.
var Categories = []Category{Water, Wind, Elephant, Birds}

// Setting parameter names as used by UpdateSetting.
const (
	ParamVolume = "volume"
	ParamFreq   = "freq"
	ParamFilter = "filterType"
	ParamQ      = "q"
	// ParamGain is the shelf and peak gain in dB.
	ParamGain = "gain"
)

const (
	minVolume = 0.0
	maxVolume = 2.0
	minFreq   = 50.0
	maxFreq   = 5000.0
	minQ      = 0.0001
	maxQ      = 1000.0
	minGain   = -40.0
	maxGain   = 40.0
)

type CategorySettings struct {
	Volume float64
	Freq   float64
	Q      float64
	Gain   float64
	Filter snd.FilterKind
}

// Snapshot is a copy of all settings taken at one point in time.
type Snapshot map[Category]CategorySettings

var defaults = Snapshot{
	Water:    {Volume: 0.2, Freq: 200, Q: snd.DefaultQ, Filter: snd.Lowpass},
	Wind:     {Volume: 0.3, Freq: 600, Q: 0.5, Filter: snd.Lowpass},
	Elephant: {Volume: 0.6, Freq: 150, Q: 5, Filter: snd.Lowpass},
	Birds:    {Volume: 0.1, Freq: 1000, Q: snd.DefaultQ, Filter: snd.Highpass},
}

// Defaults returns the initial settings.
func Defaults() Snapshot {
	s := make(Snapshot, len(defaults))
	for c, v := range defaults {
		s[c] = v
	}
	return s
}

type categoryVars struct {
	volume *cvar.Cvar
	freq   *cvar.Cvar
	q      *cvar.Cvar
	gain   *cvar.Cvar
	filter *cvar.Cvar
}

// Settings stores the per category parameters as cvars named
// "<category>.<param>".
type Settings struct {
	reg  *cvar.Registry
	vars map[Category]*categoryVars
}

func NewSettings() *Settings {
	s := &Settings{
		reg:  cvar.NewRegistry(),
		vars: make(map[Category]*categoryVars),
	}
	for _, c := range Categories {
		d := defaults[c]
		v := &categoryVars{
			volume: s.reg.MustRegister(name(c, ParamVolume), format(d.Volume), cvar.NOTIFY),
			freq:   s.reg.MustRegister(name(c, ParamFreq), format(d.Freq), cvar.NOTIFY),
			q:      s.reg.MustRegister(name(c, ParamQ), format(d.Q), cvar.NONE),
			gain:   s.reg.MustRegister(name(c, ParamGain), format(d.Gain), cvar.NOTIFY),
			filter: s.reg.MustRegister(name(c, ParamFilter), d.Filter.String(), cvar.NOTIFY),
		}
		v.volume.SetCallback(clampTo(minVolume, maxVolume))
		v.freq.SetCallback(clampTo(minFreq, maxFreq))
		v.q.SetCallback(clampTo(minQ, maxQ))
		v.gain.SetCallback(clampTo(minGain, maxGain))
		s.vars[c] = v
	}
	return s
}

func name(c Category, param string) string {
	return string(c) + "." + param
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clampTo(lo, hi float64) cvar.CallbackFunc {
	return func(cv *cvar.Cvar) {
		v := cv.Value()
		if c := smath.Clamp(lo, v, hi); c != v {
			cv.SetValue(c)
		}
	}
}

// Registry exposes the backing cvars, for listing them.
func (s *Settings) Registry() *cvar.Registry {
	return s.reg
}

// Update sets param of category to value. Numbers are clamped to their
// valid range, filter kinds have to be known.
func (s *Settings) Update(category, param, value string) error {
	c := Category(category)
	if _, ok := s.vars[c]; !ok {
		return errors.Wrapf(ErrUnknownSetting, "category %q", category)
	}
	switch param {
	case ParamVolume, ParamFreq, ParamQ, ParamGain:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalidValue, "%s: %v", name(c, param), err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(ErrInvalidValue, "%s: %v", name(c, param), value)
		}
	case ParamFilter:
		k, err := snd.ParseFilterKind(value)
		if err != nil {
			return errors.Wrapf(err, "%s", name(c, param))
		}
		value = k.String()
	default:
		return errors.Wrapf(ErrUnknownSetting, "%s", name(c, param))
	}
	return s.reg.Set(name(c, param), value)
}

func (s *Settings) Get(c Category) (CategorySettings, bool) {
	v, ok := s.vars[c]
	if !ok {
		return CategorySettings{}, false
	}
	k, err := snd.ParseFilterKind(v.filter.String())
	if err != nil {
		k = defaults[c].Filter
	}
	return CategorySettings{
		Volume: v.volume.Value(),
		Freq:   v.freq.Value(),
		Q:      v.q.Value(),
		Gain:   v.gain.Value(),
		Filter: k,
	}, true
}

func (s *Settings) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.vars))
	for c := range s.vars {
		snap[c], _ = s.Get(c)
	}
	return snap
}

// Reset restores the defaults.
func (s *Settings) Reset() {
	s.reg.ResetAll()
}
