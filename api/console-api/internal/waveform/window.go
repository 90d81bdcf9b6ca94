// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_waveform

import (
	"fmt"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
)

// Window is a fixed-capacity ring of int16 samples holding the most recent
// audio visible on screen. The oldest sample sits at head; eviction only
// advances head, so it is O(1) regardless of the evicted count.
//
// Window is not safe for concurrent use. It is owned by a single session loop.
type Window struct {
	buf       []int16
	head      int // index of the oldest sample
	length    int // number of valid samples
	chunkSize int // eviction granularity
}

var _ internal_type.WaveformView = (*Window)(nil)

// NewWindow creates a window from the geometry reported by the recorder.
func NewWindow(geometry internal_type.MediaGeometry) (*Window, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	return &Window{
		buf:       make([]int16, geometry.Capacity()),
		chunkSize: geometry.ChunkSampleCount,
	}, nil
}

func (w *Window) Len() int { return w.length }

func (w *Window) Capacity() int { return len(w.buf) }

func (w *Window) ChunkSize() int { return w.chunkSize }

func (w *Window) At(i int) int16 {
	if i < 0 || i >= w.length {
		panic(fmt.Sprintf("waveform index %d out of range [0,%d)", i, w.length))
	}
	return w.buf[(w.head+i)%len(w.buf)]
}

// Append adds payload at the tail. While the payload does not fit, whole
// chunks are evicted from the front. A payload longer than the capacity
// empties the window and keeps only its last Capacity() samples.
// It returns the number of samples evicted.
func (w *Window) Append(payload []int16) int {
	capacity := len(w.buf)
	evicted := 0

	if len(payload) > capacity {
		evicted = w.length
		w.head, w.length = 0, 0
		payload = payload[len(payload)-capacity:]
	}

	for w.length+len(payload) > capacity {
		n := w.chunkSize
		if n > w.length {
			n = w.length
		}
		w.evict(n)
		evicted += n
	}

	tail := (w.head + w.length) % capacity
	n := copy(w.buf[tail:], payload)
	copy(w.buf, payload[n:])
	w.length += len(payload)
	return evicted
}

func (w *Window) evict(n int) {
	w.head = (w.head + n) % len(w.buf)
	w.length -= n
	if w.length == 0 {
		w.head = 0
	}
}

// Samples returns a chronological copy of the window.
func (w *Window) Samples() []int16 {
	out := make([]int16, w.length)
	if w.length == 0 {
		return out
	}
	end := w.head + w.length
	if end <= len(w.buf) {
		copy(out, w.buf[w.head:end])
		return out
	}
	n := copy(out, w.buf[w.head:])
	copy(out[n:], w.buf[:w.length-n])
	return out
}
