// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_render

import (
	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

const (
	DefaultStride = 10
	// sampleSpan is the full int16 range mapped onto the surface height.
	sampleSpan = 65536.0
)

// RenderLoop draws the waveform window as one polyline. It never performs
// I/O; Tick only reads the window and writes the surface.
type RenderLoop struct {
	logger  commons.Logger
	window  internal_type.WaveformView
	flag    internal_type.RecordingFlag
	surface internal_type.Surface

	stride  int
	xStep   float64
	centerY float64
	yScale  float64

	frames uint64
}

type Option func(*RenderLoop)

// WithStride sets the decimation stride. Values below 1 are ignored.
func WithStride(stride int) Option {
	return func(r *RenderLoop) {
		if stride >= 1 {
			r.stride = stride
		}
	}
}

func NewRenderLoop(
	logger commons.Logger,
	window internal_type.WaveformView,
	flag internal_type.RecordingFlag,
	surface internal_type.Surface,
	opts ...Option,
) *RenderLoop {
	r := &RenderLoop{
		logger:  logger,
		window:  window,
		flag:    flag,
		surface: surface,
		stride:  DefaultStride,
		xStep:   surface.Width() / float64(window.Capacity()),
		centerY: surface.Height() / 2,
		yScale:  surface.Height() / sampleSpan,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tick renders one frame when recording is active. While idle the surface is
// left untouched so the previous frame stays visible.
func (r *RenderLoop) Tick() {
	if !r.flag.Active() {
		return
	}
	r.surface.ClearRect(0, 0, r.surface.Width(), r.surface.Height())
	r.frames++

	n := r.window.Len()
	if n == 0 {
		return
	}

	r.surface.BeginPath()
	r.surface.MoveTo(0, r.y(r.window.At(0)))
	for i := 0; i < n; i += r.stride {
		r.surface.LineTo(float64(i)*r.xStep, r.y(r.window.At(i)))
	}
	r.surface.Stroke()
}

// Frames is the number of frames drawn so far.
func (r *RenderLoop) Frames() uint64 {
	return r.frames
}

func (r *RenderLoop) y(sample int16) float64 {
	return r.centerY - float64(sample)*r.yScale
}
