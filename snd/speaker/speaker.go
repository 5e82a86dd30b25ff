// SPDX-License-Identifier: GPL-2.0-or-later

// Package speaker plays the device mix on the hardware through oto.
package speaker

import (
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

// Speaker implements device.Sink. Only one may be opened per process.
type Speaker struct {
	mu      sync.Mutex
	buffer  int
	ctx     *oto.Context
	player  *oto.Player
	playing bool
}

// New returns a speaker pulling bufferSize frames at a time. A bufferSize of
// zero picks one from the sample rate.
func New(bufferSize int) *Speaker {
	return &Speaker{buffer: bufferSize}
}

// ChunkSize returns the number of frames pulled per buffer for rate.
func ChunkSize(rate beep.SampleRate) int {
	switch {
	case rate <= 11025:
		return 256
	case rate <= 22050:
		return 512
	case rate <= 44100:
		return 1024
	case rate <= 56000:
		return 2048
	}
	return 4096
}

func (s *Speaker) Open(rate beep.SampleRate, src io.Reader) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return nil, errors.New("speaker already open")
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(rate),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   s.Latency(rate),
	})
	if err != nil {
		return nil, errors.Wrap(err, "oto context")
	}
	s.ctx = ctx
	s.player = ctx.NewPlayer(src)
	return ready, nil
}

func (s *Speaker) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return errors.New("speaker not open")
	}
	if err := s.ctx.Resume(); err != nil {
		return errors.Wrap(err, "resume")
	}
	if !s.playing {
		s.player.Play()
		s.playing = true
	}
	return nil
}

func (s *Speaker) Suspend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil
	}
	return errors.Wrap(s.ctx.Suspend(), "suspend")
}

func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	s.playing = false
	// oto cannot create a second context, keep ctx so Open keeps failing.
	return errors.Wrap(err, "close player")
}

// Latency is the buffered output duration for rate.
func (s *Speaker) Latency(rate beep.SampleRate) time.Duration {
	frames := s.buffer
	if frames <= 0 {
		frames = ChunkSize(rate)
	}
	return rate.D(frames)
}
