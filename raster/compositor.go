// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/compositor.go
// Summary: Double-buffered cell grid with minimal frame diffing.

package raster

// CellUpdate is one changed cell in a frame diff. Diffs are emitted in
// row-major order.
type CellUpdate struct {
	X, Y int
	Cell Cell
}

// Compositor owns the current and previous cell grids. Each commit diffs the
// freshly rendered back buffer against the previous frame, then the two
// buffers swap. Buffers are reused every tick and never deep-copied.
type Compositor struct {
	w, h  int
	front []Cell
	back  []Cell
}

// NewCompositor allocates both buffers. The previous frame starts out filled
// with a sentinel no real cell can equal, so the first commit of a session
// is always a full diff.
func NewCompositor(w, h int) *Compositor {
	c := &Compositor{}
	c.Resize(w, h)
	return c
}

// Resize reallocates both buffers and restores the sentinel state. The next
// commit emits a full diff; buffers of different dimensions cannot be
// meaningfully diffed.
func (c *Compositor) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.w, c.h = w, h
	c.front = make([]Cell, w*h)
	c.back = make([]Cell, w*h)
	for i := range c.front {
		c.front[i] = sentinelCell
	}
}

// Size returns the grid dimensions in cells.
func (c *Compositor) Size() (int, int) { return c.w, c.h }

// Back returns the row-major buffer the next frame renders into. Its
// contents are stale from two frames ago; a render pass overwrites every
// cell before Commit.
func (c *Compositor) Back() []Cell { return c.back }

// Commit diffs the back buffer against the previous frame, swaps the two
// and returns the changed cells. A cell counts as changed when its rune or
// any part of its style differs. Identical cells are never emitted.
func (c *Compositor) Commit() []CellUpdate {
	var diff []CellUpdate
	for i, cell := range c.back {
		if cell != c.front[i] {
			diff = append(diff, CellUpdate{X: i % c.w, Y: i / c.w, Cell: cell})
		}
	}
	c.front, c.back = c.back, c.front
	return diff
}
