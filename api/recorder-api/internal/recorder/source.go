// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_recorder

import (
	"fmt"
	"math"
)

// Source produces mono 16-bit samples at the recorder sample rate.
type Source interface {
	Name() string
	// Read fills buf completely.
	Read(buf []int16)
}

type toneSource struct {
	frequency float64
	amplitude float64
	rate      float64
	phase     float64
}

// NewToneSource is a sine generator. The phase carries over between reads
// so consecutive chunks join without a click.
func NewToneSource(frequency float64, amplitude float64, sampleRate int) Source {
	return &toneSource{frequency: frequency, amplitude: amplitude, rate: float64(sampleRate)}
}

func (t *toneSource) Name() string {
	return fmt.Sprintf("sine-%.0f", t.frequency)
}

func (t *toneSource) Read(buf []int16) {
	step := 2 * math.Pi * t.frequency / t.rate
	for i := range buf {
		buf[i] = int16(t.amplitude * math.MaxInt16 * math.Sin(t.phase))
		t.phase += step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
}

type silenceSource struct{}

func NewSilenceSource() Source { return silenceSource{} }

func (silenceSource) Name() string { return "silence" }

func (silenceSource) Read(buf []int16) {
	clear(buf)
}

// DefaultSources are the synthetic input devices.
func DefaultSources(sampleRate int) []Source {
	return []Source{
		NewToneSource(440, 0.5, sampleRate),
		NewToneSource(880, 0.25, sampleRate),
		NewSilenceSource(),
	}
}
