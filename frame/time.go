// SPDX-License-Identifier: GPL-2.0-or-later

package frame

import (
	"time"

	"soundscape/math"
)

const (
	minFrameTime = time.Millisecond
	maxFrameTime = 100 * time.Millisecond
)

// Frame describes the frame a task is run for.
type Frame struct {
	// Count is the number of frames run before this one.
	Count int
	// Time is the clock reading at the start of the frame.
	Time time.Duration
	// Delta is the time since the previous frame, clamped to [1ms,100ms].
	Delta time.Duration
}

// Clock returns the time since an arbitrary fixed start.
type Clock func() time.Duration

// SystemClock returns a Clock measuring from its creation.
func SystemClock() Clock {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

type frameTime struct {
	clock      Clock
	time       time.Duration
	oldTime    time.Duration
	frameTime  time.Duration
	frameCount int
	started    bool
}

// update advances the timing to the current clock reading.
func (h *frameTime) update() Frame {
	h.time = h.clock()
	if !h.started {
		h.started = true
		h.oldTime = h.time - maxFrameTime/6
	}
	h.frameTime = math.Clamp(minFrameTime, h.time-h.oldTime, maxFrameTime)
	h.oldTime = h.time
	f := Frame{
		Count: h.frameCount,
		Time:  h.time,
		Delta: h.frameTime,
	}
	h.frameCount++
	return f
}
