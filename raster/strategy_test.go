package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestPaletteBoundaryRounding(t *testing.T) {
	// ten buckets: a luminance exactly on the 0.5 boundary takes the
	// brighter glyph, index 5
	if got := paletteIndex(0.5, 10); got != 5 {
		t.Fatalf("paletteIndex(0.5, 10) = %d, want 5", got)
	}
	if got := paletteIndex(0.4999, 10); got != 4 {
		t.Fatalf("paletteIndex(0.4999, 10) = %d, want 4", got)
	}
	if got := paletteIndex(0, 10); got != 0 {
		t.Fatalf("paletteIndex(0, 10) = %d, want 0", got)
	}
	if got := paletteIndex(1, 10); got != 9 {
		t.Fatalf("paletteIndex(1, 10) = %d, want 9", got)
	}
}

func TestASCIIRenderer(t *testing.T) {
	r := &asciiRenderer{palette: []rune(" .:#"), style: tcell.StyleDefault}
	cell, err := r.Render(CellSample{Lum: 1}, nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if cell.Ch != '#' {
		t.Fatalf("white cell = %q, want '#'", cell.Ch)
	}
	cell, _ = r.Render(CellSample{Lum: 0}, nil)
	if cell.Ch != ' ' {
		t.Fatalf("black cell = %q, want space", cell.Ch)
	}
}

func TestASCIIReverse(t *testing.T) {
	r := &asciiRenderer{palette: []rune("# "), reverse: true, style: tcell.StyleDefault}
	cell, _ := r.Render(CellSample{Lum: 1}, nil)
	if cell.Ch != '#' {
		t.Fatalf("reversed white cell = %q, want '#'", cell.Ch)
	}
	cell, _ = r.Render(CellSample{Lum: 0}, nil)
	if cell.Ch != ' ' {
		t.Fatalf("reversed black cell = %q, want space", cell.Ch)
	}
}

func TestASCIITint(t *testing.T) {
	r := &asciiRenderer{palette: []rune(" #"), tint: true, style: tcell.StyleDefault}
	cell, _ := r.Render(CellSample{Lum: 1}, nil)
	fg, _, _ := cell.Style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 255) {
		t.Fatalf("tinted foreground = %v", fg)
	}
}

func TestColorBlock(t *testing.T) {
	r := &colorRenderer{}
	cell, err := r.Render(CellSample{R: 10, G: 20, B: 30}, nil)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if cell.Ch != '█' {
		t.Fatalf("cell = %q, want full block", cell.Ch)
	}
	fg, _, _ := cell.Style.Decompose()
	if fg != tcell.NewRGBColor(10, 20, 30) {
		t.Fatalf("foreground = %v, want mean color", fg)
	}
}

func TestColorSpaceBG(t *testing.T) {
	r := &colorRenderer{spaceBG: true}
	cell, _ := r.Render(CellSample{R: 100}, nil)
	if cell.Ch != ' ' {
		t.Fatalf("cell = %q, want space", cell.Ch)
	}
	_, bg, _ := cell.Style.Decompose()
	if bg != tcell.NewRGBColor(100, 0, 0) {
		t.Fatalf("background = %v, want mean color", bg)
	}
}

func TestEdgeRendererMissingData(t *testing.T) {
	r := &edgeRenderer{quantize: Quantize4, fill: ' '}
	if _, err := r.Render(CellSample{}, nil); !errors.Is(err, ErrMissingEdgeData) {
		t.Fatalf("expected ErrMissingEdgeData, got %v", err)
	}
}

func TestEdgeRendererGlyphs(t *testing.T) {
	r := &edgeRenderer{quantize: Quantize4, fill: '·'}
	cell, err := r.Render(CellSample{}, &EdgeInfo{Magnitude: 1, Direction: 0})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if cell.Ch != '│' {
		t.Fatalf("vertical stroke = %q", cell.Ch)
	}
	cell, _ = r.Render(CellSample{}, &EdgeInfo{Magnitude: 1, Direction: math.Pi / 2})
	if cell.Ch != '─' {
		t.Fatalf("horizontal stroke = %q", cell.Ch)
	}

	flat, _ := r.Render(CellSample{}, &EdgeInfo{})
	if flat.Ch != '·' {
		t.Fatalf("flat cell = %q, want fill glyph", flat.Ch)
	}
	if _, _, attrs := flat.Style.Decompose(); attrs&tcell.AttrDim == 0 {
		t.Fatalf("non-space fill must render dim")
	}
}

func TestEdgeRendererSampleColor(t *testing.T) {
	r := &edgeRenderer{quantize: Quantize4, fill: ' ', sample: true}
	cell, _ := r.Render(CellSample{R: 1, G: 2, B: 3}, &EdgeInfo{Magnitude: 1})
	fg, _, _ := cell.Style.Decompose()
	if fg != tcell.NewRGBColor(1, 2, 3) {
		t.Fatalf("sampled stroke color = %v", fg)
	}
}

func TestAutoResolve(t *testing.T) {
	if got := StrategyAuto.Resolve(Caps{Truecolor: true}); got != StrategyColor {
		t.Fatalf("truecolor resolved to %v", got)
	}
	if got := StrategyAuto.Resolve(Caps{Colors: 256}); got != StrategyColor {
		t.Fatalf("256-color resolved to %v", got)
	}
	if got := StrategyAuto.Resolve(Caps{Colors: 8}); got != StrategyASCII {
		t.Fatalf("8-color resolved to %v", got)
	}
	if got := StrategyEdge.Resolve(Caps{Truecolor: true}); got != StrategyEdge {
		t.Fatalf("non-auto strategy must pass through, got %v", got)
	}
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"ascii": StrategyASCII,
		"color": StrategyColor,
		"edge":  StrategyEdge,
		"auto":  StrategyAuto,
		"":      StrategyAuto,
	} {
		got, err := ParseStrategy(name)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseStrategy("hologram"); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}
