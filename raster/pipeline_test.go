// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/pipeline_test.go
// Summary: Exercises session validation and whole-pipeline rendering.

package raster

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func solidBuffer(w, h int, p Pixel) *PixelBuffer {
	buf := NewPixelBuffer(w, h)
	buf.Fill(p)
	return buf
}

func TestNewPipelineValidation(t *testing.T) {
	base := Config{GridW: 4, GridH: 4, Strategy: StrategyASCII}
	cases := []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"zero grid", func(c *Config) { c.GridW = 0 }, ErrBadGrid},
		{"negative grid", func(c *Config) { c.GridH = -3 }, ErrBadGrid},
		{"empty palette", func(c *Config) { c.Palette = []rune{} }, ErrEmptyPalette},
		{"wide palette rune", func(c *Config) { c.Palette = []rune(" .宽") }, ErrWidePaletteRune},
		{"negative threshold", func(c *Config) { c.EdgeThreshold = -0.1 }, ErrBadThreshold},
		{"bad strategy", func(c *Config) { c.Strategy = Strategy(42) }, ErrBadStrategy},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrBadWorkers},
	}
	for _, tc := range cases {
		cfg := base
		tc.mod(&cfg)
		if _, err := NewPipeline(cfg); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNewPipelineDefaults(t *testing.T) {
	p, err := NewPipeline(Config{GridW: 2, GridH: 2, Strategy: StrategyASCII})
	if err != nil {
		t.Fatalf("pipeline with nil palette must start: %v", err)
	}
	if p.ResolvedStrategy() != StrategyASCII {
		t.Fatalf("resolved = %v", p.ResolvedStrategy())
	}
}

func TestAllWhiteASCIIScenario(t *testing.T) {
	p, err := NewPipeline(Config{GridW: 2, GridH: 2, Strategy: StrategyASCII, Palette: []rune(" .:#")})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	diff, err := p.Render(solidBuffer(2, 2, Pixel{R: 255, G: 255, B: 255, A: 255}))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(diff) != 4 {
		t.Fatalf("first frame diff = %d cells, want 4", len(diff))
	}
	for _, u := range diff {
		if u.Cell.Ch != '#' {
			t.Fatalf("cell (%d,%d) = %q, want '#'", u.X, u.Y, u.Cell.Ch)
		}
		if u.Cell != diff[0].Cell {
			t.Fatalf("white frame must render identical cells")
		}
	}
}

func TestVerticalSplitRendersVerticalEdges(t *testing.T) {
	buf := NewPixelBuffer(3, 3)
	for y := 0; y < 3; y++ {
		buf.Set(2, y, Pixel{R: 255, G: 255, B: 255, A: 255})
	}
	p, err := NewPipeline(Config{GridW: 3, GridH: 3, Strategy: StrategyEdge, EdgeThreshold: DefaultEdgeThreshold})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	diff, err := p.Render(buf)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	cells := make(map[[2]int]rune)
	for _, u := range diff {
		cells[[2]int{u.X, u.Y}] = u.Cell.Ch
	}
	for y := 0; y < 3; y++ {
		if cells[[2]int{1, y}] != '│' || cells[[2]int{2, y}] != '│' {
			t.Fatalf("boundary column not vertical at row %d: %+v", y, cells)
		}
		if cells[[2]int{0, y}] != ' ' {
			t.Fatalf("flat column rendered %q at row %d", cells[[2]int{0, y}], y)
		}
	}
}

func TestRenderSteadySceneEmptyDiff(t *testing.T) {
	buf := solidBuffer(8, 8, Pixel{R: 120, G: 80, B: 40, A: 255})
	p, err := NewPipeline(Config{GridW: 4, GridH: 4, Strategy: StrategyColor})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	first, err := p.Render(buf)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(first) != 16 {
		t.Fatalf("first diff = %d cells, want full 16", len(first))
	}
	second, err := p.Render(buf)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("steady scene produced %d updates", len(second))
	}
}

func TestWorkersMatchSerial(t *testing.T) {
	buf := NewPixelBuffer(32, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			buf.Set(x, y, Pixel{R: uint8(x * 8), G: uint8(y * 16), B: uint8((x + y) * 5), A: 255})
		}
	}
	cfg := Config{GridW: 16, GridH: 8, Strategy: StrategyColor}
	serial, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	cfg.Workers = 4
	parallel, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	a, err := serial.Render(buf)
	if err != nil {
		t.Fatalf("serial render failed: %v", err)
	}
	b, err := parallel.Render(buf)
	if err != nil {
		t.Fatalf("parallel render failed: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("diff lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("diffs diverge at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestResizeEmitsFullDiff(t *testing.T) {
	buf := solidBuffer(8, 8, Pixel{R: 50, G: 50, B: 50, A: 255})
	p, err := NewPipeline(Config{GridW: 4, GridH: 4, Strategy: StrategyColor})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if _, err := p.Render(buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if err := p.Resize(2, 2); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	diff, err := p.Render(buf)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(diff) != 4 {
		t.Fatalf("post-resize diff = %d cells, want 4", len(diff))
	}
	if err := p.Resize(0, 5); !errors.Is(err, ErrBadGrid) {
		t.Fatalf("expected ErrBadGrid, got %v", err)
	}
}

func TestOddFrameIsScaled(t *testing.T) {
	// a 5x5 frame has no integer block fit on a 2x2 grid; the scaler
	// normalizes it before sampling
	p, err := NewPipeline(Config{GridW: 2, GridH: 2, Strategy: StrategyColor})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	diff, err := p.Render(solidBuffer(5, 5, Pixel{R: 200, A: 255}))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(diff) != 4 {
		t.Fatalf("diff = %d cells, want 4", len(diff))
	}
	fg, _, _ := diff[0].Cell.Style.Decompose()
	if fg != tcell.NewRGBColor(200, 0, 0) {
		t.Fatalf("solid frame changed color through scaling: %v", fg)
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	p, err := NewPipeline(Config{GridW: 2, GridH: 2, Strategy: StrategyColor})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if _, err := p.Render(NewPixelBuffer(0, 0)); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestAutoSessionResolution(t *testing.T) {
	p, err := NewPipeline(Config{GridW: 2, GridH: 2, Strategy: StrategyAuto, Terminal: Caps{Truecolor: true}})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if p.ResolvedStrategy() != StrategyColor {
		t.Fatalf("truecolor session resolved to %v", p.ResolvedStrategy())
	}
	p, err = NewPipeline(Config{GridW: 2, GridH: 2, Strategy: StrategyAuto})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if p.ResolvedStrategy() != StrategyASCII {
		t.Fatalf("dumb terminal session resolved to %v", p.ResolvedStrategy())
	}
}
