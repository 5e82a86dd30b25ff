// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"soundscape/rand"
	"soundscape/synth"

	"github.com/go-audio/wav"
)

func TestRender(t *testing.T) {
	mix, err := render(renderConfig{
		rate:     8000,
		fps:      50,
		duration: time.Second,
		rnd:      rand.New(1),
		noise:    rand.New(2),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(mix) != 2*8000 {
		t.Fatalf("got %d samples, want %d", len(mix), 2*8000)
	}
	silent := true
	for _, v := range mix {
		if v != 0 {
			silent = false
			break
		}
	}
	if silent {
		t.Errorf("rendered mix is silent")
	}
}

func TestWriteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "mix.wav")
	mix := []float64{0, 0, 0.5, -0.5, 1, -1}
	err := writeFile(name, func(w io.WriteSeeker) error {
		return synth.WriteWAV(w, 8000, 2, mix)
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() || d.NumChans != 2 || d.SampleRate != 8000 {
		t.Errorf("wav header: valid %v, %d ch, %d Hz", d.IsValidFile(), d.NumChans, d.SampleRate)
	}
}
