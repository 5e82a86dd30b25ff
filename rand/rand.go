// SPDX-License-Identifier: GPL-2.0-or-later

package rand

import "time"

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

// Source is the random source consumed by the synthesizer and the scene.
type Source interface {
	// Float64 returns a number in [0, 1).
	Float64() float64
}

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) *Generator {
	return &Generator{idx: 0, seed: seed}
}

// NewTimeSeeded returns a generator seeded from the wall clock.
func NewTimeSeeded() *Generator {
	return New(uint32(time.Now().UnixNano()))
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

func (g *Generator) rand() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

func (g *Generator) Float64() float64 {
	hi := uint64(g.rand() >> 5) // 27 bits
	lo := uint64(g.rand() >> 6) // 26 bits
	return float64(hi<<26|lo) / (1 << 53)
}
