// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/edge.go
// Summary: Sobel gradient detection and stroke direction quantization.

package raster

import "math"

// Neighborhood is the 3x3 block of samples around one cell. The fixed size
// makes a malformed neighborhood a compile-time error.
type Neighborhood [3][3]CellSample

// EdgeInfo is the luminance gradient at one cell. Gradients are normalized
// so a full dark-to-light split across the neighborhood measures 1.0 per
// axis; Direction is atan2(gy, gx) in radians with y growing downward.
type EdgeInfo struct {
	Magnitude float64
	Direction float64
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// EdgeDetector classifies cells as flat or edge by Sobel gradient magnitude.
type EdgeDetector struct {
	threshold float64
}

// DefaultEdgeThreshold is the stock magnitude cutoff on the normalized
// gradient scale.
const DefaultEdgeThreshold = 0.3

// NewEdgeDetector returns a detector with the given magnitude threshold.
func NewEdgeDetector(threshold float64) *EdgeDetector {
	return &EdgeDetector{threshold: threshold}
}

// kernelScale maps raw kernel sums onto the normalized gradient scale: the
// kernel weights on one side total 4, so a unit luminance step yields 1.0.
const kernelScale = 4

// Detect runs the 3x3 Sobel kernels over the neighborhood luminance and
// reports whether the cell is an edge. The comparison is inclusive: a
// magnitude exactly at the threshold counts as an edge, so boundary values
// classify deterministically. Flat cells return ok == false.
func (d *EdgeDetector) Detect(n Neighborhood) (EdgeInfo, bool) {
	var gx, gy float64
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			lum := n[y][x].Lum
			gx += sobelX[y][x] * lum
			gy += sobelY[y][x] * lum
		}
	}
	gx /= kernelScale
	gy /= kernelScale
	mag := math.Sqrt(gx*gx + gy*gy)
	if mag < d.threshold {
		return EdgeInfo{}, false
	}
	return EdgeInfo{Magnitude: mag, Direction: math.Atan2(gy, gx)}, true
}

// EdgeAxis is a quantized stroke direction. The stroke runs perpendicular to
// the gradient, so a purely horizontal gradient (a vertical light/dark
// split) maps to the vertical axis.
type EdgeAxis uint8

const (
	AxisVertical EdgeAxis = iota
	AxisDiagUp
	AxisHorizontal
	AxisDiagDown
	AxisJunction
)

// Quantize4 buckets a gradient direction into one of four stroke axes.
// Gradient sign is irrelevant to the stroke, so directions fold into
// [0, pi) before bucketing.
func Quantize4(dir float64) EdgeAxis {
	a := math.Mod(dir, math.Pi)
	if a < 0 {
		a += math.Pi
	}
	switch int(math.Floor(a/(math.Pi/4)+0.5)) % 4 {
	case 0:
		return AxisVertical
	case 1:
		return AxisDiagUp
	case 2:
		return AxisHorizontal
	default:
		return AxisDiagDown
	}
}

// Quantize8 refines Quantize4 with half-step buckets rendered as junctions,
// giving the denser 8-glyph edge set.
func Quantize8(dir float64) EdgeAxis {
	a := math.Mod(dir, math.Pi)
	if a < 0 {
		a += math.Pi
	}
	if int(math.Floor(a/(math.Pi/8)+0.5))%2 == 1 {
		return AxisJunction
	}
	return Quantize4(dir)
}
