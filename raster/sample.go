// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/sample.go
// Summary: Block-mean sampling of pixel frames into per-cell statistics.

package raster

import "errors"

// ErrOutOfBounds reports a cell coordinate outside the grid implied by the
// frame and block dimensions. It is surfaced immediately, never retried.
var ErrOutOfBounds = errors.New("raster: cell coordinate out of bounds")

// CellSample is the aggregated statistic for one terminal cell: mean channel
// values on the 0..255 scale plus normalized luminance. Samples are derived
// and ephemeral; they live for one frame.
type CellSample struct {
	R, G, B, A float64
	Lum        float64
}

// Sampler reduces fixed-size pixel blocks to CellSamples. It carries no
// per-frame state, so sampling the same frame twice yields identical output.
type Sampler struct {
	blockW, blockH int
	model          LuminanceModel
}

// NewSampler returns a sampler for blockW by blockH pixel blocks. Dimensions
// below 1 are raised to 1.
func NewSampler(blockW, blockH int, model LuminanceModel) *Sampler {
	if blockW < 1 {
		blockW = 1
	}
	if blockH < 1 {
		blockH = 1
	}
	return &Sampler{blockW: blockW, blockH: blockH, model: model}
}

// Sample averages the pixel block under cell (cx, cy). The average is a
// straight arithmetic mean of the raw channel values, not gamma-corrected.
// Cells outside the grid implied by the frame dimensions return
// ErrOutOfBounds.
func (s *Sampler) Sample(buf *PixelBuffer, cx, cy int) (CellSample, error) {
	w, h := buf.Size()
	gridW, gridH := w/s.blockW, h/s.blockH
	if cx < 0 || cy < 0 || cx >= gridW || cy >= gridH {
		return CellSample{}, ErrOutOfBounds
	}
	var r, g, b, a float64
	x0, y0 := cx*s.blockW, cy*s.blockH
	for y := y0; y < y0+s.blockH; y++ {
		row := buf.pix[y*w : y*w+w]
		for x := x0; x < x0+s.blockW; x++ {
			p := row[x]
			r += float64(p.R)
			g += float64(p.G)
			b += float64(p.B)
			a += float64(p.A)
		}
	}
	n := float64(s.blockW * s.blockH)
	out := CellSample{R: r / n, G: g / n, B: b / n, A: a / n}
	out.Lum = s.model.luminance(out.R, out.G, out.B)
	return out, nil
}

// SampleGrid holds one frame's worth of CellSamples in row-major order. The
// pipeline fills it once per frame and the edge detector reads from it.
type SampleGrid struct {
	w, h    int
	samples []CellSample
}

// NewSampleGrid allocates a w by h grid.
func NewSampleGrid(w, h int) *SampleGrid {
	return &SampleGrid{w: w, h: h, samples: make([]CellSample, w*h)}
}

// Size returns the grid dimensions in cells.
func (g *SampleGrid) Size() (int, int) { return g.w, g.h }

// At returns the sample at x,y with clamped borders: out-of-range reads
// replicate the nearest cell instead of wrapping or zero-padding, which
// keeps frame borders free of spurious gradients.
func (g *SampleGrid) At(x, y int) CellSample {
	if x < 0 {
		x = 0
	} else if x >= g.w {
		x = g.w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.h {
		y = g.h - 1
	}
	return g.samples[y*g.w+x]
}

func (g *SampleGrid) set(x, y int, s CellSample) {
	g.samples[y*g.w+x] = s
}

// Neighborhood extracts the 3x3 block centered on x,y with clamped borders.
func (g *SampleGrid) Neighborhood(x, y int) Neighborhood {
	var n Neighborhood
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			n[dy+1][dx+1] = g.At(x+dx, y+dy)
		}
	}
	return n
}
