// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/scale.go
// Summary: Prescaling of frames to block-divisible dimensions.

package raster

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ScaleKernel selects the resampling filter used when a frame has to be
// resized before sampling.
type ScaleKernel uint8

const (
	// ScaleBilinear is the fast default.
	ScaleBilinear ScaleKernel = iota
	// ScaleNearest keeps hard pixel boundaries, useful for pixel art.
	ScaleNearest
	// ScaleCatmullRom is the sharpest and slowest of the three.
	ScaleCatmullRom
)

// ParseScaleKernel maps config names to kernels. The empty string selects
// bilinear.
func ParseScaleKernel(name string) (ScaleKernel, error) {
	switch name {
	case "bilinear", "":
		return ScaleBilinear, nil
	case "nearest":
		return ScaleNearest, nil
	case "catmullrom":
		return ScaleCatmullRom, nil
	}
	return 0, fmt.Errorf("raster: unknown scale kernel %q", name)
}

func (k ScaleKernel) scaler() xdraw.Scaler {
	switch k {
	case ScaleNearest:
		return xdraw.NearestNeighbor
	case ScaleCatmullRom:
		return xdraw.CatmullRom
	default:
		return xdraw.ApproxBiLinear
	}
}

// Scaler fits arbitrary frames to exact multiples of the sampling block, so
// every cell always maps to a full pixel block. The destination image is
// reused between frames.
type Scaler struct {
	kernel ScaleKernel
	dst    *image.RGBA
}

// NewScaler returns a scaler using the given kernel.
func NewScaler(kernel ScaleKernel) *Scaler {
	return &Scaler{kernel: kernel}
}

// Fit returns buf unchanged when it already has the requested dimensions,
// otherwise a resampled copy. The input frame is never modified.
func (s *Scaler) Fit(buf *PixelBuffer, w, h int) *PixelBuffer {
	bw, bh := buf.Size()
	if bw == w && bh == h {
		return buf
	}
	src := buf.toRGBA()
	if s.dst == nil || s.dst.Rect.Dx() != w || s.dst.Rect.Dy() != h {
		s.dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	s.kernel.scaler().Scale(s.dst, s.dst.Rect, src, src.Rect, xdraw.Src, nil)
	return FromImage(s.dst)
}
