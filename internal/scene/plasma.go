// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scene/plasma.go
// Summary: Classic interference plasma. Four phase-shifted sine fields sum
// into a scalar that drives hue and brightness.

package scene

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/texelcast/config"
	"github.com/framegrace/texelcast/raster"
)

type plasmaScene struct {
	buf    *raster.PixelBuffer
	speed  float64
	scale  float64
	warmth float64
}

func newPlasma(w, h int, profile config.Config) (Source, error) {
	return &plasmaScene{
		buf:    raster.NewPixelBuffer(w, h),
		speed:  profile.GetFloat("plasma", "speed", 1.0),
		scale:  profile.GetFloat("plasma", "scale", 0.08),
		warmth: profile.GetFloat("plasma", "warmth", 0.6),
	}, nil
}

func (s *plasmaScene) Frame(elapsed time.Duration) *raster.PixelBuffer {
	w, h := s.buf.Size()
	t := elapsed.Seconds() * s.speed
	cx, cy := float64(w)/2, float64(h)/2

	for y := 0; y < h; y++ {
		fy := float64(y)
		for x := 0; x < w; x++ {
			fx := float64(x)
			v := math.Sin(fx*s.scale + t)
			v += math.Sin(fy*s.scale*1.3 - t*0.7)
			v += math.Sin((fx+fy)*s.scale*0.5 + t*0.3)
			v += math.Sin(math.Hypot(fx-cx, fy-cy)*s.scale - t)
			// Four unit sines, so v sits in [-4, 4].
			level := v/8 + 0.5

			hue := math.Mod(level*280+s.warmth*80, 360)
			r, g, b := colorful.Hsv(hue, 0.7, 0.35+0.65*level).RGB255()
			s.buf.Set(x, y, raster.Pixel{R: r, G: g, B: b, A: 255})
		}
	}
	return s.buf
}

func init() {
	Register("plasma", newPlasma)
}
