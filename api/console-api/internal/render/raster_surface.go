// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
)

const (
	DefaultWidth  = 500
	DefaultHeight = 180
)

var (
	// rgba(21,71,52,0.5)
	DefaultStrokeColor = drawing.Color{R: 21, G: 71, B: 52, A: 128}
	DefaultBackground  = drawing.ColorWhite
)

// RasterSurface is an in-memory RGBA canvas. Paths are built and stroked by
// the go-chart drawing rasterizer.
type RasterSurface struct {
	img        *image.RGBA
	gc         *drawing.RasterGraphicContext
	background color.Color
}

var _ internal_type.Surface = (*RasterSurface)(nil)

type SurfaceOption func(*surfaceOptions)

type surfaceOptions struct {
	stroke     drawing.Color
	background drawing.Color
	lineWidth  float64
}

func WithStrokeColor(c drawing.Color) SurfaceOption {
	return func(o *surfaceOptions) { o.stroke = c }
}

func WithBackground(c drawing.Color) SurfaceOption {
	return func(o *surfaceOptions) { o.background = c }
}

func WithLineWidth(w float64) SurfaceOption {
	return func(o *surfaceOptions) { o.lineWidth = w }
}

func NewRasterSurface(width, height int, opts ...SurfaceOption) (*RasterSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface size must be positive, got %dx%d", width, height)
	}
	o := &surfaceOptions{
		stroke:     DefaultStrokeColor,
		background: DefaultBackground,
		lineWidth:  1,
	}
	for _, opt := range opts {
		opt(o)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return nil, fmt.Errorf("unable to create raster context: %w", err)
	}
	gc.SetStrokeColor(o.stroke)
	gc.SetLineWidth(o.lineWidth)

	s := &RasterSurface{img: img, gc: gc, background: o.background}
	s.ClearRect(0, 0, float64(width), float64(height))
	return s, nil
}

func (s *RasterSurface) Width() float64 { return float64(s.img.Bounds().Dx()) }

func (s *RasterSurface) Height() float64 { return float64(s.img.Bounds().Dy()) }

// ClearRect paints the rectangle with the background colour.
func (s *RasterSurface) ClearRect(x, y, w, h float64) {
	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	).Intersect(s.img.Bounds())
	draw.Draw(s.img, rect, image.NewUniform(s.background), image.Point{}, draw.Src)
}

func (s *RasterSurface) BeginPath() { s.gc.BeginPath() }

func (s *RasterSurface) MoveTo(x, y float64) { s.gc.MoveTo(x, y) }

func (s *RasterSurface) LineTo(x, y float64) { s.gc.LineTo(x, y) }

func (s *RasterSurface) Stroke() { s.gc.Stroke() }

// Frame returns a copy of the current pixels.
func (s *RasterSurface) Frame() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// EncodePNG encodes a frame for HTTP export.
func EncodePNG(frame image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("unable to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
