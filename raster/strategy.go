// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: raster/strategy.go
// Summary: Cell render strategies: ASCII density, color block, edge glyphs.

package raster

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Strategy selects how samples become cells. The choice is made once per
// session and dispatched through a concrete renderer, so the per-cell loop
// never branches on it.
type Strategy uint8

const (
	// StrategyASCII maps luminance onto a density palette.
	StrategyASCII Strategy = iota
	// StrategyColor emits filled blocks carrying the mean cell color.
	StrategyColor
	// StrategyEdge draws box glyphs along detected luminance edges.
	StrategyEdge
	// StrategyAuto resolves to ASCII or Color at session start from the
	// terminal capabilities handed to NewPipeline.
	StrategyAuto
)

func (s Strategy) String() string {
	switch s {
	case StrategyASCII:
		return "ascii"
	case StrategyColor:
		return "color"
	case StrategyEdge:
		return "edge"
	case StrategyAuto:
		return "auto"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// ParseStrategy maps config names to strategies. The empty string selects
// Auto.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "ascii":
		return StrategyASCII, nil
	case "color":
		return StrategyColor, nil
	case "edge":
		return StrategyEdge, nil
	case "auto", "":
		return StrategyAuto, nil
	}
	return 0, fmt.Errorf("raster: unknown strategy %q", name)
}

// Caps describes the output terminal, used to resolve StrategyAuto.
type Caps struct {
	Colors      int
	Truecolor   bool
	Interactive bool
}

// Resolve maps Auto to a concrete strategy for the given terminal. Rich
// color terminals take the block path; everything else falls back to ASCII
// density. Non-auto strategies pass through unchanged.
func (s Strategy) Resolve(caps Caps) Strategy {
	if s != StrategyAuto {
		return s
	}
	if caps.Truecolor || caps.Colors >= 256 {
		return StrategyColor
	}
	return StrategyASCII
}

// ErrMissingEdgeData reports an edge render with no gradient attached. The
// pipeline always computes gradients when the edge strategy is active, so
// this only fires on a miswired caller. It is a hard failure, never a
// silent fallback.
var ErrMissingEdgeData = errors.New("raster: edge strategy rendered without edge data")

// DefaultPalette is the stock density ramp, darkest to lightest.
var DefaultPalette = []rune(" .'`,:;\"-+=*#%@")

// CellRenderer turns one sample into one styled cell. Renderers are built
// once per session by NewPipeline and must be safe for concurrent calls on
// distinct cells.
type CellRenderer interface {
	Render(s CellSample, edge *EdgeInfo) (Cell, error)
}

// paletteIndex buckets a 0..1 luminance over n glyphs. Buckets are
// left-closed, so a luminance exactly on a bucket boundary takes the
// brighter glyph.
func paletteIndex(lum float64, n int) int {
	idx := int(lum * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

type asciiRenderer struct {
	palette []rune
	reverse bool
	tint    bool
	style   tcell.Style
}

func (r *asciiRenderer) Render(s CellSample, _ *EdgeInfo) (Cell, error) {
	idx := paletteIndex(s.Lum, len(r.palette))
	if r.reverse {
		idx = len(r.palette) - 1 - idx
	}
	st := r.style
	if r.tint {
		v := int32(s.Lum*255 + 0.5)
		st = st.Foreground(tcell.NewRGBColor(v, v, v))
	}
	return Cell{Ch: r.palette[idx], Style: st}, nil
}

type colorRenderer struct {
	spaceBG bool
}

func (r *colorRenderer) Render(s CellSample, _ *EdgeInfo) (Cell, error) {
	c := tcell.NewRGBColor(int32(s.R+0.5), int32(s.G+0.5), int32(s.B+0.5))
	if r.spaceBG {
		return Cell{Ch: ' ', Style: tcell.StyleDefault.Background(c)}, nil
	}
	return Cell{Ch: '█', Style: tcell.StyleDefault.Foreground(c)}, nil
}

var axisGlyphs = [...]rune{
	AxisVertical:   '│',
	AxisDiagUp:     '╱',
	AxisHorizontal: '─',
	AxisDiagDown:   '╲',
	AxisJunction:   '┼',
}

type edgeRenderer struct {
	quantize func(float64) EdgeAxis
	fill     rune
	color    tcell.Color
	sample   bool
}

// Render draws the stroke glyph for the quantized gradient direction. The
// pipeline hands flat cells a zero-magnitude EdgeInfo; a nil edge means the
// caller never ran detection at all.
func (r *edgeRenderer) Render(s CellSample, edge *EdgeInfo) (Cell, error) {
	if edge == nil {
		return Cell{}, ErrMissingEdgeData
	}
	if edge.Magnitude == 0 {
		st := tcell.StyleDefault
		if r.fill != ' ' {
			st = st.Dim(true)
		}
		return Cell{Ch: r.fill, Style: st}, nil
	}
	st := tcell.StyleDefault
	if r.sample {
		st = st.Foreground(tcell.NewRGBColor(int32(s.R+0.5), int32(s.G+0.5), int32(s.B+0.5)))
	} else {
		st = st.Foreground(r.color)
	}
	return Cell{Ch: axisGlyphs[r.quantize(edge.Direction)], Style: st}, nil
}

// newRenderer builds the concrete renderer for an already resolved and
// validated config.
func newRenderer(cfg *Config, resolved Strategy) CellRenderer {
	switch resolved {
	case StrategyColor:
		return &colorRenderer{spaceBG: cfg.SpaceBG}
	case StrategyEdge:
		quant := Quantize4
		if cfg.EightWay {
			quant = Quantize8
		}
		return &edgeRenderer{
			quantize: quant,
			fill:     cfg.FillGlyph,
			color:    cfg.EdgeColor,
			sample:   cfg.SampleColor,
		}
	default:
		return &asciiRenderer{
			palette: cfg.Palette,
			reverse: cfg.PaletteReverse,
			tint:    cfg.Tint,
			style:   tcell.StyleDefault,
		}
	}
}
