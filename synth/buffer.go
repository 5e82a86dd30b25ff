// SPDX-License-Identifier: GPL-2.0-or-later

package synth

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
)

// Buffer is an immutable mono sample buffer.
type Buffer struct {
	rate    beep.SampleRate
	samples []float64
}

// NewBuffer wraps samples. The slice must not be modified afterwards.
func NewBuffer(rate beep.SampleRate, samples []float64) *Buffer {
	return &Buffer{rate: rate, samples: samples}
}

func (b *Buffer) Len() int {
	return len(b.samples)
}

func (b *Buffer) SampleRate() beep.SampleRate {
	return b.rate
}

func (b *Buffer) Duration() time.Duration {
	return b.rate.D(len(b.samples))
}

func (b *Buffer) At(i int) float64 {
	return b.samples[i]
}

// Streamer returns a new read cursor over the buffer. The mono signal is
// copied to both channels.
func (b *Buffer) Streamer() beep.StreamSeeker {
	return &cursor{buf: b}
}

type cursor struct {
	buf *Buffer
	pos int
}

func (c *cursor) Stream(samples [][2]float64) (int, bool) {
	data := c.buf.samples
	if c.pos >= len(data) {
		return 0, false
	}
	n := copyMono(samples, data[c.pos:])
	c.pos += n
	return n, true
}

func copyMono(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i, v := range src[:n] {
		dst[i] = [2]float64{v, v}
	}
	return n
}

func (c *cursor) Err() error {
	return nil
}

func (c *cursor) Len() int {
	return len(c.buf.samples)
}

func (c *cursor) Position() int {
	return c.pos
}

func (c *cursor) Seek(p int) error {
	if p < 0 || c.Len() < p {
		return fmt.Errorf("seek position %d is out of range [%d,%d]", p, 0, c.Len())
	}
	c.pos = p
	return nil
}
