// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/frame.go
// Summary: Pixel frame storage handed in by frame sources.

// Package raster turns pixel frames into terminal cell grids. A session owns
// a Pipeline built from a validated Config; each Render pass samples the
// frame into per-cell statistics, applies the configured strategy and emits
// the minimal diff against the previous frame.
package raster

import "image"

// Pixel is one RGBA sample. Channels are 8-bit, non-premultiplied.
type Pixel struct {
	R, G, B, A uint8
}

// PixelBuffer is a width by height frame in row-major order with an optional
// per-pixel depth plane. A buffer is read-only once handed to a Pipeline;
// the pipeline never writes to a submitted frame.
type PixelBuffer struct {
	w, h  int
	pix   []Pixel
	depth []float32
}

// NewPixelBuffer allocates a zeroed (transparent black) frame. Negative
// dimensions collapse to an empty buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &PixelBuffer{w: w, h: h, pix: make([]Pixel, w*h)}
}

// Size returns the frame dimensions in pixels.
func (b *PixelBuffer) Size() (int, int) { return b.w, b.h }

// At returns the pixel at x,y. Out-of-range coordinates return a zero Pixel.
func (b *PixelBuffer) At(x, y int) Pixel {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return Pixel{}
	}
	return b.pix[y*b.w+x]
}

// Set writes the pixel at x,y. Out-of-range coordinates are ignored.
func (b *PixelBuffer) Set(x, y int, p Pixel) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	b.pix[y*b.w+x] = p
}

// Fill sets every pixel to p. The depth plane, if any, is left alone.
func (b *PixelBuffer) Fill(p Pixel) {
	for i := range b.pix {
		b.pix[i] = p
	}
}

// Depth returns the depth sample at x,y. The second return is false when the
// buffer carries no depth plane or the coordinates are out of range.
func (b *PixelBuffer) Depth(x, y int) (float32, bool) {
	if b.depth == nil || x < 0 || y < 0 || x >= b.w || y >= b.h {
		return 0, false
	}
	return b.depth[y*b.w+x], true
}

// SetDepth writes a depth sample, allocating the plane on first use.
// Out-of-range coordinates are ignored.
func (b *PixelBuffer) SetDepth(x, y int, d float32) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	if b.depth == nil {
		b.depth = make([]float32, b.w*b.h)
	}
	b.depth[y*b.w+x] = d
}

// HasDepth reports whether the buffer carries a depth plane.
func (b *PixelBuffer) HasDepth() bool { return b.depth != nil }

// FromImage copies img into a new PixelBuffer. *image.RGBA sources take a
// row-copy fast path; anything else goes through the color model.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewPixelBuffer(w, h)
	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+w*4]
			for x := 0; x < w; x++ {
				buf.pix[y*w+x] = Pixel{row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]}
			}
		}
		return buf
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			buf.pix[y*w+x] = Pixel{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}
		}
	}
	return buf
}

// toRGBA copies the frame into a stdlib image for resampling.
func (b *PixelBuffer) toRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.w, b.h))
	for i, p := range b.pix {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}
