// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_type

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"
)

var (
	ErrInvalidGeometry   = errors.New("invalid media geometry")
	ErrIllegalTransition = errors.New("illegal recording state transition")
	ErrNotRecording      = errors.New("not recording")
	ErrAlreadyRecording  = errors.New("already recording")
	ErrSessionClosed     = errors.New("session closed")
)

// MediaGeometry is reported once by the recorder at startup.
type MediaGeometry struct {
	// ChunkSampleCount is the producer chunk size, which is also the
	// eviction granularity of the waveform window.
	ChunkSampleCount int `json:"dcs"`
	// XAxis spans the visible time axis; its length is the window capacity.
	XAxis []float64 `json:"x"`
	// AverageTransferRate is advisory and never used for rendering.
	AverageTransferRate float64 `json:"atr"`
}

func (g MediaGeometry) Capacity() int {
	return len(g.XAxis)
}

func (g MediaGeometry) Validate() error {
	if g.ChunkSampleCount <= 0 {
		return fmt.Errorf("%w: dcs must be a positive integer, got %d", ErrInvalidGeometry, g.ChunkSampleCount)
	}
	if len(g.XAxis) == 0 {
		return fmt.Errorf("%w: x must not be empty", ErrInvalidGeometry)
	}
	return nil
}

type RecordingState int

const (
	Idle RecordingState = iota
	Active
)

func (s RecordingState) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// RecordingFlag is the read-only view of the recording state.
type RecordingFlag interface {
	Active() bool
}

// WaveformView is the read-only view of the waveform window.
type WaveformView interface {
	Len() int
	Capacity() int
	// At returns the i-th oldest sample. i must be in [0, Len()).
	At(i int) int16
}

// Surface is the 2D drawing target of the render loop.
type Surface interface {
	Width() float64
	Height() float64
	ClearRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
}

// IngestStats is the advisory rate accounting of the stream ingestor.
type IngestStats struct {
	Messages        uint64     `json:"messages"`
	RollMessages    uint64     `json:"roll_messages"`
	Ignored         uint64     `json:"ignored"`
	DecodeFailures  uint64     `json:"decode_failures"`
	SamplesAccepted uint64     `json:"samples_accepted"`
	FirstChunkTime  *time.Time `json:"first_chunk_time,omitempty"`
}

// AverageRate returns bytes per second since the first chunk, assuming
// 16-bit samples.
func (s IngestStats) AverageRate(now time.Time) float64 {
	if s.FirstChunkTime == nil {
		return 0
	}
	elapsed := now.Sub(*s.FirstChunkTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.SamplesAccepted*2) / elapsed
}

// Status is a point-in-time view of a console session.
type Status struct {
	Recording        string      `json:"recording"`
	WindowLength     int         `json:"window_length"`
	WindowCapacity   int         `json:"window_capacity"`
	ChunkSampleCount int         `json:"chunk_sample_count"`
	AverageRate      float64     `json:"average_rate"`
	Stats            IngestStats `json:"stats"`
}

// FrameSurface is a Surface whose pixels can be exported.
type FrameSurface interface {
	Surface
	Frame() *image.RGBA
}

// RecordingSwitch is the write side of the recording state. Only the
// recording controller holds it.
type RecordingSwitch interface {
	SetRecording(ctx context.Context, active bool) error
}

// StreamSink receives raw push-channel frames.
type StreamSink interface {
	Push(ctx context.Context, raw []byte) error
}
