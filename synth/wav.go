// SPDX-License-Identifier: GPL-2.0-or-later

package synth

import (
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"
)

const bitDepth = 16

// WriteWAV writes interleaved samples in [-1,1] as 16 bit PCM.
func WriteWAV(w io.WriteSeeker, rate beep.SampleRate, channels int, interleaved []float64) error {
	if channels < 1 {
		return errors.Errorf("invalid channel count %d", channels)
	}
	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		data[i] = toPCM16(v)
	}
	format := &audio.Format{SampleRate: int(rate), NumChannels: channels}
	enc := wav.NewEncoder(w, format.SampleRate, bitDepth, format.NumChannels, 1)
	if err := enc.Write(&audio.IntBuffer{Data: data, Format: format, SourceBitDepth: bitDepth}); err != nil {
		return errors.Wrap(err, "encode wav")
	}
	return errors.Wrap(enc.Close(), "close wav")
}

func toPCM16(v float64) int {
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * math.MaxInt16))
}

// WriteWAV writes the buffer as a mono WAV file.
func (b *Buffer) WriteWAV(w io.WriteSeeker) error {
	return WriteWAV(w, b.rate, 1, b.samples)
}
