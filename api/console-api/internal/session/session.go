// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_session

import (
	"context"
	"image"
	"time"

	internal_ingestor "github.com/HN-Vignolles/sounds/api/console-api/internal/ingestor"
	internal_render "github.com/HN-Vignolles/sounds/api/console-api/internal/render"
	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	internal_waveform "github.com/HN-Vignolles/sounds/api/console-api/internal/waveform"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

const (
	DefaultRenderInterval = 20 * time.Millisecond
	DefaultInboxSize      = 256
)

// Session owns the waveform window and the recording flag of one console.
// Every read and write of that state happens on the goroutine running Run:
//
//   - inbox:   raw push-channel frames -> StreamIngestor.OnMessage
//   - control: closures from SetRecording / Status / Frame
//   - ticker:  RenderLoop.Tick
//
// Each dispatch runs to completion before the next one, so no locking is
// needed for the window, the flag or the surface.
type Session struct {
	logger   commons.Logger
	geometry internal_type.MediaGeometry

	window   *internal_waveform.Window
	state    *recordingState
	ingestor *internal_ingestor.StreamIngestor
	renderer *internal_render.RenderLoop
	surface  internal_type.FrameSurface

	interval time.Duration
	clock    func() time.Time

	inbox   chan []byte
	control chan func()
	done    chan struct{}
}

var (
	_ internal_type.RecordingSwitch = (*Session)(nil)
	_ internal_type.StreamSink      = (*Session)(nil)
)

type sessionOptions struct {
	interval  time.Duration
	inboxSize int
	stride    int
	clock     func() time.Time
}

type Option func(*sessionOptions)

func WithRenderInterval(d time.Duration) Option {
	return func(o *sessionOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

func WithInboxSize(n int) Option {
	return func(o *sessionOptions) {
		if n > 0 {
			o.inboxSize = n
		}
	}
}

func WithStride(stride int) Option {
	return func(o *sessionOptions) { o.stride = stride }
}

func WithClock(clock func() time.Time) Option {
	return func(o *sessionOptions) { o.clock = clock }
}

// NewSession builds the window from geometry. An invalid geometry is an
// error and no session is created.
func NewSession(
	logger commons.Logger,
	geometry internal_type.MediaGeometry,
	surface internal_type.FrameSurface,
	opts ...Option,
) (*Session, error) {
	o := &sessionOptions{
		interval:  DefaultRenderInterval,
		inboxSize: DefaultInboxSize,
		stride:    internal_render.DefaultStride,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	window, err := internal_waveform.NewWindow(geometry)
	if err != nil {
		return nil, err
	}
	state := &recordingState{}

	return &Session{
		logger:   logger,
		geometry: geometry,
		window:   window,
		state:    state,
		ingestor: internal_ingestor.NewStreamIngestor(logger, window, internal_ingestor.WithClock(o.clock)),
		renderer: internal_render.NewRenderLoop(logger, window, state, surface, internal_render.WithStride(o.stride)),
		surface:  surface,
		interval: o.interval,
		clock:    o.clock,
		inbox:    make(chan []byte, o.inboxSize),
		control:  make(chan func()),
		done:     make(chan struct{}),
	}, nil
}

// Run dispatches frames, control requests and render ticks until ctx is
// cancelled. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.done)

	s.logger.Infof("session started: capacity=%d, chunk=%d, interval=%s",
		s.window.Capacity(), s.window.ChunkSize(), s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("session stopped after %d frames", s.renderer.Frames())
			return nil
		case raw := <-s.inbox:
			s.ingestor.OnMessage(raw)
		case fn := <-s.control:
			fn()
		case <-ticker.C:
			s.renderer.Tick()
		}
	}
}

// Push queues a raw push-channel frame. It blocks while the inbox is full so
// that overflow stays in the transport.
func (s *Session) Push(ctx context.Context, raw []byte) error {
	// the inbox is buffered, so a closed session must be ruled out before
	// the send competes with done.
	select {
	case <-s.done:
		return internal_type.ErrSessionClosed
	default:
	}
	select {
	case s.inbox <- raw:
		return nil
	case <-s.done:
		return internal_type.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetRecording applies a recording state transition on the session loop.
func (s *Session) SetRecording(ctx context.Context, active bool) error {
	target := internal_type.Idle
	if active {
		target = internal_type.Active
	}
	var err error
	if doErr := s.do(ctx, func() {
		from := s.state.State()
		if err = s.state.transition(target); err == nil {
			s.logger.Infof("recording state %s -> %s", from, target)
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// Status returns the flag, window occupancy and ingest statistics.
func (s *Session) Status(ctx context.Context) (internal_type.Status, error) {
	var status internal_type.Status
	err := s.do(ctx, func() {
		stats := s.ingestor.Stats()
		status = internal_type.Status{
			Recording:        s.state.State().String(),
			WindowLength:     s.window.Len(),
			WindowCapacity:   s.window.Capacity(),
			ChunkSampleCount: s.window.ChunkSize(),
			AverageRate:      stats.AverageRate(s.clock()),
			Stats:            stats,
		}
	})
	return status, err
}

// Frame returns a copy of the surface pixels.
func (s *Session) Frame(ctx context.Context) (*image.RGBA, error) {
	var frame *image.RGBA
	err := s.do(ctx, func() {
		frame = s.surface.Frame()
	})
	return frame, err
}

// Samples returns a chronological copy of the waveform window.
func (s *Session) Samples(ctx context.Context) ([]int16, error) {
	var samples []int16
	err := s.do(ctx, func() {
		samples = s.window.Samples()
	})
	return samples, err
}

func (s *Session) Geometry() internal_type.MediaGeometry {
	return s.geometry
}

// do runs fn on the session loop and waits for it. The control channel is
// unbuffered, so once the send succeeds fn runs before the next dispatch.
func (s *Session) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case s.control <- func() { fn(); close(finished) }:
	case <-s.done:
		return internal_type.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}
