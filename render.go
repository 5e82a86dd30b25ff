// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	cmdl "soundscape/commandline"
	"soundscape/device"
	"soundscape/frame"
	"soundscape/input"
	"soundscape/listener"
	"soundscape/rand"
	"soundscape/scene"
	"soundscape/synth"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

type renderConfig struct {
	rate     beep.SampleRate
	fps      int
	duration time.Duration
	rnd      rand.Source
	noise    rand.Source
	debug    bool
}

// render runs the scene without hardware and returns the interleaved stereo
// mix.
func render(cfg renderConfig) ([]float64, error) {
	if cfg.fps <= 0 {
		cfg.fps = 60
	}
	interval := time.Second / time.Duration(cfg.fps)
	var now time.Duration
	clock := func() time.Duration {
		now += interval
		return now
	}

	dev := device.New(&device.Offline{}, cfg.rate)
	defer dev.Close()
	loop := frame.New(clock)
	director := scene.New(dev, loop,
		scene.WithRand(cfg.rnd),
		scene.WithSynthesizer(synth.New(cfg.rate, cfg.noise)),
		scene.WithDebug(cfg.debug))
	tracker := listener.New(dev, loop, &input.Bus{}, listener.WithObserver(director.ListenerMoved))

	tracker.Activate()
	defer tracker.Deactivate()
	if _, err := director.Start(context.Background()); err != nil {
		return nil, err
	}
	defer director.Stop()

	frames := int(cfg.duration / interval)
	out := make([]float64, 0, 2*cfg.rate.N(cfg.duration))
	var block [][2]float64
	done := 0
	for i := 0; i < frames; i++ {
		loop.Step()
		n := cfg.rate.N(time.Duration(i+1)*interval) - done
		if cap(block) < n {
			block = make([][2]float64, n)
		}
		block = block[:n]
		dev.Stream(block)
		for _, s := range block {
			out = append(out, s[0], s[1])
		}
		done += n
	}
	return out, nil
}

func renderToFile(name string, d time.Duration) error {
	rate := beep.SampleRate(cmdl.SampleRate())
	mix, err := render(renderConfig{
		rate:     rate,
		fps:      cmdl.FPS(),
		duration: d,
		rnd:      newRand(0),
		noise:    newRand(1),
		debug:    cmdl.Debug(),
	})
	if err != nil {
		return err
	}
	if err := writeFile(name, func(w io.WriteSeeker) error {
		return synth.WriteWAV(w, rate, 2, mix)
	}); err != nil {
		return err
	}
	log.Printf("rendered %v to %s", d, name)
	return nil
}

// dumpBuffers writes one buffer of every kind the scene generates.
func dumpBuffers(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create dump directory")
	}
	s := synth.New(beep.SampleRate(cmdl.SampleRate()), newRand(2))
	buffers := []struct {
		name string
		buf  *synth.Buffer
	}{
		{"brown.wav", s.BrownNoise(10 * time.Second)},
		{"pink.wav", s.PinkNoise(10 * time.Second)},
		{"white.wav", s.WhiteNoise(2 * time.Second)},
		{"chirp.wav", s.Chirp()},
	}
	for _, b := range buffers {
		name := filepath.Join(dir, b.name)
		if err := writeFile(name, b.buf.WriteWAV); err != nil {
			return err
		}
		log.Printf("wrote %s", name)
	}
	return nil
}

func writeFile(name string, write func(io.WriteSeeker) error) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	return errors.Wrapf(f.Close(), "close %s", name)
}
