// SPDX-License-Identifier: GPL-2.0-or-later

package snd

import (
	"soundscape/synth"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

// unit plays one buffer once or looped. It is never restarted after it
// finished or was released.
type unit struct {
	streamer beep.Streamer
	playing  bool
	done     bool
}

func newUnit(buf *synth.Buffer, loop bool) (*unit, error) {
	var s beep.Streamer = buf.Streamer()
	if loop && buf.Len() > 0 {
		l, err := beep.Loop2(buf.Streamer())
		if err != nil {
			return nil, errors.Wrap(err, "loop buffer")
		}
		s = l
	}
	return &unit{streamer: s}, nil
}

func (u *unit) stop() {
	u.playing = false
	u.done = true
}

// slot is the head of a source chain. It holds at most one unit and
// produces silence without one so the chain stays connected.
type slot struct {
	unit *unit
}

func (s *slot) Stream(samples [][2]float64) (int, bool) {
	u := s.unit
	if u == nil || !u.playing {
		clear(samples)
		return len(samples), true
	}
	n, ok := u.streamer.Stream(samples)
	clear(samples[n:])
	if !ok || n < len(samples) {
		u.stop()
	}
	return len(samples), true
}

func (s *slot) Err() error {
	if s.unit == nil {
		return nil
	}
	return s.unit.streamer.Err()
}
