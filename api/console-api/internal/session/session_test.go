// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_session

import (
	"context"
	"encoding/json"
	"image"
	"testing"
	"time"

	internal_render "github.com/HN-Vignolles/sounds/api/console-api/internal/render"
	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSurface is only touched from the session loop.
type countingSurface struct {
	calls int
	lines int
}

func (s *countingSurface) Width() float64               { return 500 }
func (s *countingSurface) Height() float64              { return 180 }
func (s *countingSurface) ClearRect(x, y, w, h float64) { s.calls++ }
func (s *countingSurface) BeginPath()                   { s.calls++ }
func (s *countingSurface) MoveTo(x, y float64)          { s.calls++ }
func (s *countingSurface) Stroke()                      { s.calls++ }
func (s *countingSurface) Frame() *image.RGBA           { return image.NewRGBA(image.Rect(0, 0, 1, 1)) }

func (s *countingSurface) LineTo(x, y float64) {
	s.calls++
	s.lines++
}

func newTestLogger() commons.Logger {
	l, _ := commons.NewApplicationLogger()
	return l
}

func testGeometry(dcs, capacity int) internal_type.MediaGeometry {
	return internal_type.MediaGeometry{ChunkSampleCount: dcs, XAxis: make([]float64, capacity)}
}

func roll(t *testing.T, n int, value int) []byte {
	t.Helper()
	values := make([]int, n)
	for i := range values {
		values[i] = value
	}
	raw, err := json.Marshal(map[string]interface{}{"roll": values})
	require.NoError(t, err)
	return raw
}

func startSession(t *testing.T, s *Session) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		assert.NoError(t, s.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return cancel
}

// surfaceCounts reads the mock on the session loop.
func surfaceCounts(t *testing.T, s *Session, surface *countingSurface) (calls, lines int) {
	t.Helper()
	require.NoError(t, s.do(context.Background(), func() {
		calls, lines = surface.calls, surface.lines
	}))
	return calls, lines
}

func TestNewSession_InvalidGeometry(t *testing.T) {
	_, err := NewSession(newTestLogger(), internal_type.MediaGeometry{}, &countingSurface{})
	assert.ErrorIs(t, err, internal_type.ErrInvalidGeometry)
}

func TestSession_IdleIngestsButNeverDraws(t *testing.T) {
	surface := &countingSurface{}
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), surface, WithRenderInterval(time.Millisecond))
	require.NoError(t, err)
	startSession(t, s)

	ctx := context.Background()
	require.NoError(t, s.Push(ctx, roll(t, 40, 7)))
	require.NoError(t, s.Push(ctx, roll(t, 40, 7)))

	require.Eventually(t, func() bool {
		status, err := s.Status(ctx)
		return err == nil && status.WindowLength == 80
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	calls, _ := surfaceCounts(t, s, surface)
	assert.Equal(t, 0, calls, "idle ticks must not touch the surface")

	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "idle", status.Recording)
	assert.Equal(t, 100, status.WindowCapacity)
	assert.Equal(t, 10, status.ChunkSampleCount)
	assert.Equal(t, uint64(2), status.Stats.RollMessages)
}

func TestSession_ActiveDraws(t *testing.T) {
	surface := &countingSurface{}
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), surface, WithRenderInterval(time.Millisecond))
	require.NoError(t, err)
	startSession(t, s)

	ctx := context.Background()
	require.NoError(t, s.Push(ctx, roll(t, 100, 1000)))
	require.NoError(t, s.SetRecording(ctx, true))

	require.Eventually(t, func() bool {
		_, lines := surfaceCounts(t, s, surface)
		return lines >= 10
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.SetRecording(ctx, false))
	calls, _ := surfaceCounts(t, s, surface)
	time.Sleep(20 * time.Millisecond)
	after, _ := surfaceCounts(t, s, surface)
	assert.Equal(t, calls, after, "drawing stops once idle")
}

func TestSession_IllegalTransitions(t *testing.T) {
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), &countingSurface{})
	require.NoError(t, err)
	startSession(t, s)
	ctx := context.Background()

	assert.ErrorIs(t, s.SetRecording(ctx, false), internal_type.ErrIllegalTransition)
	require.NoError(t, s.SetRecording(ctx, true))
	assert.ErrorIs(t, s.SetRecording(ctx, true), internal_type.ErrIllegalTransition)

	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "active", status.Recording)
}

func TestSession_ClosedAfterCancel(t *testing.T) {
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), &countingSurface{})
	require.NoError(t, err)
	cancel := startSession(t, s)
	cancel()

	require.Eventually(t, func() bool {
		return s.Push(context.Background(), roll(t, 1, 1)) == internal_type.ErrSessionClosed
	}, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.SetRecording(context.Background(), true), internal_type.ErrSessionClosed)
	_, err = s.Status(context.Background())
	assert.ErrorIs(t, err, internal_type.ErrSessionClosed)
}

func TestSession_PushNeverQueuesAfterRunReturns(t *testing.T) {
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), &countingSurface{}, WithInboxSize(64))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Run(ctx))

	for i := 0; i < 32; i++ {
		assert.ErrorIs(t, s.Push(context.Background(), roll(t, 1, 1)), internal_type.ErrSessionClosed)
	}
	assert.Empty(t, s.inbox)
}

func TestSession_PushRespectsContextWhenInboxFull(t *testing.T) {
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), &countingSurface{}, WithInboxSize(1))
	require.NoError(t, err)
	// loop not running: the inbox fills after one frame

	require.NoError(t, s.Push(context.Background(), roll(t, 1, 1)))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Push(ctx, roll(t, 1, 1)), context.DeadlineExceeded)
}

func TestSession_RasterFrameChangesWhileRecording(t *testing.T) {
	surface, err := internal_render.NewRasterSurface(100, 40)
	require.NoError(t, err)
	s, err := NewSession(newTestLogger(), testGeometry(10, 100), surface, WithRenderInterval(time.Millisecond))
	require.NoError(t, err)
	startSession(t, s)
	ctx := context.Background()

	blank, err := s.Frame(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Push(ctx, roll(t, 100, 20000)))
	require.NoError(t, s.SetRecording(ctx, true))

	require.Eventually(t, func() bool {
		frame, err := s.Frame(ctx)
		return err == nil && string(frame.Pix) != string(blank.Pix)
	}, time.Second, 5*time.Millisecond)

	samples, err := s.Samples(ctx)
	require.NoError(t, err)
	assert.Len(t, samples, 100)
}
