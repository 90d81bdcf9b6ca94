// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_render

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countNonBackground(img *image.RGBA) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff || img.Pix[i+1] != 0xff || img.Pix[i+2] != 0xff {
			n++
		}
	}
	return n
}

func TestNewRasterSurface_RejectsEmptySize(t *testing.T) {
	_, err := NewRasterSurface(0, 180)
	assert.Error(t, err)
}

func TestRasterSurface_StartsCleared(t *testing.T) {
	s, err := NewRasterSurface(DefaultWidth, DefaultHeight)
	require.NoError(t, err)

	assert.Equal(t, 500.0, s.Width())
	assert.Equal(t, 180.0, s.Height())
	assert.Equal(t, 0, countNonBackground(s.Frame()))
}

func TestRasterSurface_StrokeAndClear(t *testing.T) {
	s, err := NewRasterSurface(100, 50, WithLineWidth(2))
	require.NoError(t, err)

	s.BeginPath()
	s.MoveTo(0, 25)
	s.LineTo(50, 5)
	s.LineTo(99, 45)
	s.Stroke()
	assert.Greater(t, countNonBackground(s.Frame()), 0, "stroke must paint pixels")

	s.ClearRect(0, 0, s.Width(), s.Height())
	assert.Equal(t, 0, countNonBackground(s.Frame()))
}

func TestRasterSurface_FrameIsACopy(t *testing.T) {
	s, err := NewRasterSurface(10, 10)
	require.NoError(t, err)

	frame := s.Frame()
	frame.Pix[0] = 0
	assert.Equal(t, 0, countNonBackground(s.Frame()))
}

func TestEncodePNG(t *testing.T) {
	s, err := NewRasterSurface(20, 10)
	require.NoError(t, err)

	data, err := EncodePNG(s.Frame())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
}
