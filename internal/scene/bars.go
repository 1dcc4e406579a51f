// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scene/bars.go
// Summary: Spectrum-style bar meter. Bands are driven by detuned sines and
// a decaying peak envelope, colored green through red by height.

package scene

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/texelcast/config"
	"github.com/framegrace/texelcast/raster"
)

type barsScene struct {
	buf   *raster.PixelBuffer
	bands int
	decay float64
	peaks []float64
}

func newBars(w, h int, profile config.Config) (Source, error) {
	bands := profile.GetInt("bars", "bands", 12)
	if bands < 1 {
		bands = 1
	}
	if bands > w {
		bands = w
	}
	decay := profile.GetFloat("bars", "decay", 0.92)
	if decay < 0 {
		decay = 0
	} else if decay > 0.999 {
		decay = 0.999
	}
	return &barsScene{
		buf:   raster.NewPixelBuffer(w, h),
		bands: bands,
		decay: decay,
		peaks: make([]float64, bands),
	}, nil
}

func (s *barsScene) Frame(elapsed time.Duration) *raster.PixelBuffer {
	w, h := s.buf.Size()
	t := elapsed.Seconds()

	s.buf.Fill(raster.Pixel{A: 255})

	bandW := w / s.bands
	if bandW < 1 {
		bandW = 1
	}
	gap := 0
	if bandW > 3 {
		gap = 1
	}

	for i := 0; i < s.bands; i++ {
		freq := 0.9 + 0.37*float64(i)
		phase := float64(i) * 1.7
		drive := math.Abs(math.Sin(t*freq + phase))
		drive = math.Pow(drive, 1.5)

		s.peaks[i] *= s.decay
		if drive > s.peaks[i] {
			s.peaks[i] = drive
		}

		barH := int(s.peaks[i] * float64(h))
		x0 := i * bandW
		x1 := x0 + bandW - gap
		if x1 > w {
			x1 = w
		}

		for y := h - barH; y < h; y++ {
			// 0 at the base, 1 at the top of the grid.
			frac := float64(h-1-y) / float64(h)
			hue := 120 * (1 - frac)
			r, g, b := colorful.Hsv(hue, 0.9, 0.9).RGB255()
			for x := x0; x < x1; x++ {
				s.buf.Set(x, y, raster.Pixel{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return s.buf
}

func init() {
	Register("bars", newBars)
}
