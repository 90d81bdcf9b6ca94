// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_recorder

import (
	"errors"
	"time"
)

var (
	ErrUnknownDevice    = errors.New("unknown input device")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
)

const (
	AudioBytesPerSample = 2  // LINEAR16 → 2 bytes per sample
	AudioBitsPerSample  = 16 // LINEAR16 → 16 bits per sample
	AudioChannels       = 1

	DefaultEvent = "unnamed-event"
	DefaultFold  = 1
)

type Config struct {
	SampleRate       int
	RecDuration      int // seconds kept in the take ring
	ChunkSamples     int
	SubscriberBuffer int
	// SamplesPath is where takes and the catalog are written. Empty keeps
	// everything in memory.
	SamplesPath string
}

func (c Config) TakeCapacity() int {
	return c.RecDuration * c.SampleRate
}

func (c Config) ChunkDuration() time.Duration {
	return time.Duration(c.ChunkSamples) * time.Second / time.Duration(c.SampleRate)
}

type Device struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Geometry is what the console needs to size its waveform window.
type Geometry struct {
	AverageTransferRate float64   `json:"atr"`
	ChunkSampleCount    int       `json:"dcs"`
	XAxis               []float64 `json:"x"`
}

// Take is a saved recording.
type Take struct {
	Filename string        `json:"filename"`
	Category string        `json:"category"`
	Fold     int           `json:"fold"`
	Samples  int           `json:"samples"`
	Duration time.Duration `json:"duration"`
}

type TableRow struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
