// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scene/orbit.go
// Summary: Bodies circling a common center, leaving decaying trails. The
// trail buffer persists across frames, so motion reads as streaks even at
// low frame rates.

package scene

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/texelcast/config"
	"github.com/framegrace/texelcast/raster"
)

type orbitScene struct {
	buf    *raster.PixelBuffer
	bodies int
	radius float64
	trail  float64
}

func newOrbit(w, h int, profile config.Config) (Source, error) {
	bodies := profile.GetInt("orbit", "bodies", 3)
	if bodies < 1 {
		bodies = 1
	}
	trail := profile.GetFloat("orbit", "trail", 0.85)
	if trail < 0 {
		trail = 0
	} else if trail > 0.98 {
		trail = 0.98
	}
	return &orbitScene{
		buf:    raster.NewPixelBuffer(w, h),
		bodies: bodies,
		radius: profile.GetFloat("orbit", "radius", 0.35),
		trail:  trail,
	}, nil
}

func (s *orbitScene) Frame(elapsed time.Duration) *raster.PixelBuffer {
	w, h := s.buf.Size()
	t := elapsed.Seconds()

	// Fade what the previous frame left behind.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := s.buf.At(x, y)
			p.R = uint8(float64(p.R) * s.trail)
			p.G = uint8(float64(p.G) * s.trail)
			p.B = uint8(float64(p.B) * s.trail)
			p.A = 255
			s.buf.Set(x, y, p)
		}
	}

	cx, cy := float64(w)/2, float64(h)/2
	minDim := math.Min(float64(w), float64(h))
	orbitR := s.radius * minDim
	bodyR := math.Max(2, minDim*0.05)

	for i := 0; i < s.bodies; i++ {
		phase := float64(i) * 2 * math.Pi / float64(s.bodies)
		angle := t*(0.5+0.17*float64(i)) + phase
		bx := cx + math.Cos(angle)*orbitR
		by := cy + math.Sin(angle)*orbitR*0.85

		hue := float64(i) * 360 / float64(s.bodies)
		cr, cg, cb := colorful.Hsv(hue, 0.75, 1.0).RGB255()

		s.drawBody(bx, by, bodyR, cr, cg, cb)
	}
	return s.buf
}

// drawBody paints a disc with quadratic falloff, additively over the trail.
func (s *orbitScene) drawBody(bx, by, r float64, cr, cg, cb uint8) {
	x0, x1 := int(bx-r)-1, int(bx+r)+1
	y0, y1 := int(by-r)-1, int(by+r)+1
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)-bx, float64(y)-by)
			if d > r {
				continue
			}
			k := 1 - (d/r)*(d/r)
			p := s.buf.At(x, y)
			p.R = addChannel(p.R, cr, k)
			p.G = addChannel(p.G, cg, k)
			p.B = addChannel(p.B, cb, k)
			p.A = 255
			s.buf.Set(x, y, p)
		}
	}
}

func addChannel(base, add uint8, k float64) uint8 {
	v := float64(base) + float64(add)*k
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func init() {
	Register("orbit", newOrbit)
}
