// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/pipeline.go
// Summary: Per-session render pipeline: validate once, render per tick.

package raster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Config validation sentinels. NewPipeline wraps them with the offending
// values; test with errors.Is.
var (
	ErrBadGrid         = errors.New("raster: grid dimensions must be positive")
	ErrEmptyPalette    = errors.New("raster: character palette is empty")
	ErrWidePaletteRune = errors.New("raster: palette rune wider than one column")
	ErrBadThreshold    = errors.New("raster: edge threshold must not be negative")
	ErrBadStrategy     = errors.New("raster: unknown strategy")
	ErrBadWorkers      = errors.New("raster: workers must not be negative")
	ErrEmptyFrame      = errors.New("raster: frame has no pixels")
)

// Config is the per-session render configuration. It is validated once in
// NewPipeline and immutable afterwards; nothing is re-checked per frame.
type Config struct {
	// GridW, GridH are the output grid dimensions in terminal cells.
	GridW, GridH int

	Strategy Strategy

	// Palette is the ASCII density ramp, darkest to lightest. Nil selects
	// DefaultPalette. Every rune must occupy exactly one terminal column.
	Palette []rune
	// PaletteReverse interprets the ramp lightest to darkest instead.
	PaletteReverse bool
	// Tint makes the ASCII strategy gray-tint the foreground by luminance
	// instead of using the terminal default color.
	Tint bool

	// EdgeThreshold is the inclusive gradient magnitude cutoff on the
	// normalized 0..1 scale. Zero admits every cell; cells with no gradient
	// at all still draw the fill glyph.
	EdgeThreshold float64
	// EightWay switches edge quantization from 4 to 8 direction buckets.
	EightWay bool
	// FillGlyph is drawn on flat cells under the edge strategy. Zero means
	// a plain space.
	FillGlyph rune
	// EdgeColor is the fixed stroke color. The zero value keeps the
	// terminal default foreground.
	EdgeColor tcell.Color
	// SampleColor tints strokes with the sampled cell color instead.
	SampleColor bool

	// SpaceBG makes the color strategy paint cell backgrounds behind
	// spaces instead of drawing block glyphs.
	SpaceBG bool

	Luminance LuminanceModel
	Kernel    ScaleKernel

	// Workers fans sampling and rendering out over row chunks. Zero or one
	// keeps the pipeline strictly serial. Output is identical either way.
	Workers int

	// Terminal is consulted only to resolve StrategyAuto.
	Terminal Caps
}

func (c *Config) validate(resolved Strategy) error {
	if c.GridW <= 0 || c.GridH <= 0 {
		return fmt.Errorf("%w (%dx%d)", ErrBadGrid, c.GridW, c.GridH)
	}
	if c.Strategy > StrategyAuto {
		return fmt.Errorf("%w (%d)", ErrBadStrategy, uint8(c.Strategy))
	}
	if c.EdgeThreshold < 0 {
		return fmt.Errorf("%w (%g)", ErrBadThreshold, c.EdgeThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w (%d)", ErrBadWorkers, c.Workers)
	}
	if resolved == StrategyASCII {
		if len(c.Palette) == 0 {
			return ErrEmptyPalette
		}
		for _, r := range c.Palette {
			if runewidth.RuneWidth(r) != 1 {
				return fmt.Errorf("%w (%q)", ErrWidePaletteRune, r)
			}
		}
	}
	if resolved == StrategyEdge && runewidth.RuneWidth(c.FillGlyph) != 1 {
		return fmt.Errorf("%w (%q)", ErrWidePaletteRune, c.FillGlyph)
	}
	return nil
}

// Pipeline is one render session: sampler, optional edge detector, renderer
// and compositor wired together. It is not safe for concurrent use; one
// frame is in flight at a time and Render never blocks on I/O.
type Pipeline struct {
	cfg      Config
	resolved Strategy
	renderer CellRenderer
	detector *EdgeDetector
	scaler   *Scaler
	grid     *SampleGrid
	comp     *Compositor
}

// NewPipeline validates cfg and builds a render session. StrategyAuto is
// resolved here, once. A misconfigured session refuses to start instead of
// emitting blank or garbage frames.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Palette == nil {
		cfg.Palette = DefaultPalette
	}
	if cfg.FillGlyph == 0 {
		cfg.FillGlyph = ' '
	}
	resolved := cfg.Strategy.Resolve(cfg.Terminal)
	if err := cfg.validate(resolved); err != nil {
		return nil, fmt.Errorf("failed to start render session: %w", err)
	}
	p := &Pipeline{
		cfg:      cfg,
		resolved: resolved,
		renderer: newRenderer(&cfg, resolved),
		scaler:   NewScaler(cfg.Kernel),
		grid:     NewSampleGrid(cfg.GridW, cfg.GridH),
		comp:     NewCompositor(cfg.GridW, cfg.GridH),
	}
	if resolved == StrategyEdge {
		p.detector = NewEdgeDetector(cfg.EdgeThreshold)
	}
	return p, nil
}

// Grid returns the output grid dimensions in cells.
func (p *Pipeline) Grid() (int, int) { return p.cfg.GridW, p.cfg.GridH }

// ResolvedStrategy returns the concrete strategy in effect for the session.
func (p *Pipeline) ResolvedStrategy() Strategy { return p.resolved }

// Resize changes the output grid. The compositor resets its sentinel state,
// so the next Render emits a full diff.
func (p *Pipeline) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w (%dx%d)", ErrBadGrid, w, h)
	}
	p.cfg.GridW, p.cfg.GridH = w, h
	p.grid = NewSampleGrid(w, h)
	p.comp.Resize(w, h)
	return nil
}

// blockDim picks the pixels-per-cell ratio for one axis, at least 1.
func blockDim(frame, grid int) int {
	b := (frame + grid/2) / grid
	if b < 1 {
		b = 1
	}
	return b
}

// Render passes one frame through the pipeline and returns the diff against
// the previous frame. Frames whose dimensions are not exact multiples of the
// sampling block are prescaled first. Identical consecutive frames produce
// an empty diff; the first frame of a session is always a full diff.
func (p *Pipeline) Render(buf *PixelBuffer) ([]CellUpdate, error) {
	fw, fh := buf.Size()
	if fw < 1 || fh < 1 {
		return nil, ErrEmptyFrame
	}
	bw := blockDim(fw, p.cfg.GridW)
	bh := blockDim(fh, p.cfg.GridH)
	frame := p.scaler.Fit(buf, bw*p.cfg.GridW, bh*p.cfg.GridH)
	smp := NewSampler(bw, bh, p.cfg.Luminance)

	if err := p.eachRow(func(y int) error {
		for x := 0; x < p.cfg.GridW; x++ {
			s, err := smp.Sample(frame, x, y)
			if err != nil {
				return err
			}
			p.grid.set(x, y, s)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sample frame: %w", err)
	}

	back := p.comp.Back()
	if err := p.eachRow(func(y int) error {
		for x := 0; x < p.cfg.GridW; x++ {
			var (
				cell Cell
				err  error
			)
			if p.detector != nil {
				info, ok := p.detector.Detect(p.grid.Neighborhood(x, y))
				if !ok {
					info = EdgeInfo{}
				}
				cell, err = p.renderer.Render(p.grid.At(x, y), &info)
			} else {
				cell, err = p.renderer.Render(p.grid.At(x, y), nil)
			}
			if err != nil {
				return err
			}
			back[y*p.cfg.GridW+x] = cell
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to render cells: %w", err)
	}

	return p.comp.Commit(), nil
}

// eachRow runs fn for every grid row. With more than one worker the rows
// fan out in chunks; workers write disjoint rows and share only read-only
// state, so no locking is needed beyond the final join.
func (p *Pipeline) eachRow(fn func(y int) error) error {
	n := p.cfg.Workers
	if n <= 1 {
		for y := 0; y < p.cfg.GridH; y++ {
			if err := fn(y); err != nil {
				return err
			}
		}
		return nil
	}
	if n > p.cfg.GridH {
		n = p.cfg.GridH
	}
	chunk := (p.cfg.GridH + n - 1) / n
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	for w := 0; w < n; w++ {
		y0 := w * chunk
		y1 := y0 + chunk
		if y1 > p.cfg.GridH {
			y1 = p.cfg.GridH
		}
		if y0 >= y1 {
			break
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				if err := fn(y); err != nil {
					mu.Lock()
					if first == nil {
						first = err
					}
					mu.Unlock()
					return
				}
			}
		}(y0, y1)
	}
	wg.Wait()
	return first
}
