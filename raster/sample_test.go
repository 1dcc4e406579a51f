package raster

import (
	"errors"
	"math"
	"testing"
)

func TestSampleBlockMean(t *testing.T) {
	buf := NewPixelBuffer(4, 2)
	buf.Set(0, 0, Pixel{R: 10, A: 255})
	buf.Set(1, 0, Pixel{R: 20, A: 255})
	buf.Set(0, 1, Pixel{R: 30, A: 255})
	buf.Set(1, 1, Pixel{R: 40, A: 255})
	for y := 0; y < 2; y++ {
		for x := 2; x < 4; x++ {
			buf.Set(x, y, Pixel{R: 60, G: 60, B: 60, A: 255})
		}
	}

	smp := NewSampler(2, 2, LumFlat)
	left, err := smp.Sample(buf, 0, 0)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if left.R != 25 || left.G != 0 || left.B != 0 || left.A != 255 {
		t.Fatalf("unexpected left mean: %+v", left)
	}
	if want := 25.0 / 3 / 255; math.Abs(left.Lum-want) > 1e-12 {
		t.Fatalf("left luminance = %g, want %g", left.Lum, want)
	}

	right, err := smp.Sample(buf, 1, 0)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if right.R != 60 || right.G != 60 || right.B != 60 {
		t.Fatalf("unexpected right mean: %+v", right)
	}
}

func TestSampleDeterministic(t *testing.T) {
	buf := NewPixelBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			buf.Set(x, y, Pixel{R: uint8(x * 30), G: uint8(y * 30), B: uint8(x + y), A: 255})
		}
	}
	smp := NewSampler(4, 4, LumRec709)
	first, err := smp.Sample(buf, 1, 1)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	second, err := smp.Sample(buf, 1, 1)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	if first != second {
		t.Fatalf("sampling is not deterministic: %+v vs %+v", first, second)
	}
}

func TestSampleOutOfBounds(t *testing.T) {
	buf := NewPixelBuffer(4, 4)
	smp := NewSampler(2, 2, LumFlat)
	if _, err := smp.Sample(buf, 2, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := smp.Sample(buf, 0, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestLuminanceModels(t *testing.T) {
	flat := LumFlat.luminance(0, 255, 0)
	if math.Abs(flat-1.0/3) > 1e-12 {
		t.Fatalf("flat green = %g, want 1/3", flat)
	}
	rec := LumRec709.luminance(0, 255, 0)
	if math.Abs(rec-0.7152) > 1e-12 {
		t.Fatalf("rec709 green = %g, want 0.7152", rec)
	}
	lab := LumLab.luminance(0, 255, 0)
	if lab < 0.8 || lab > 0.95 {
		t.Fatalf("lab green = %g, want perceptual brightness near 0.88", lab)
	}
	if white := LumLab.luminance(255, 255, 255); math.Abs(white-1) > 1e-3 {
		t.Fatalf("lab white = %g, want 1", white)
	}
	if black := LumLab.luminance(0, 0, 0); black > 1e-3 {
		t.Fatalf("lab black = %g, want 0", black)
	}
}

func TestParseLuminanceModel(t *testing.T) {
	if m, err := ParseLuminanceModel(""); err != nil || m != LumFlat {
		t.Fatalf("empty name: %v %v", m, err)
	}
	if m, err := ParseLuminanceModel("lab"); err != nil || m != LumLab {
		t.Fatalf("lab: %v %v", m, err)
	}
	if _, err := ParseLuminanceModel("bogus"); err == nil {
		t.Fatalf("expected error for unknown model")
	}
}

func TestSampleGridClamp(t *testing.T) {
	g := NewSampleGrid(2, 2)
	g.set(0, 0, CellSample{Lum: 0.1})
	g.set(1, 0, CellSample{Lum: 0.2})
	g.set(0, 1, CellSample{Lum: 0.3})
	g.set(1, 1, CellSample{Lum: 0.4})

	if got := g.At(-1, -1); got.Lum != 0.1 {
		t.Fatalf("top-left clamp = %+v", got)
	}
	if got := g.At(5, 1); got.Lum != 0.4 {
		t.Fatalf("right clamp = %+v", got)
	}
	n := g.Neighborhood(0, 0)
	if n[0][0].Lum != 0.1 || n[0][1].Lum != 0.1 || n[1][0].Lum != 0.1 {
		t.Fatalf("corner neighborhood not replicated: %+v", n)
	}
	if n[2][2].Lum != 0.4 {
		t.Fatalf("neighborhood center block wrong: %+v", n)
	}

	// a 1x1 grid clamps every neighbor onto its single cell
	single := NewSampleGrid(1, 1)
	single.set(0, 0, CellSample{Lum: 0.7})
	sn := single.Neighborhood(0, 0)
	for dy := 0; dy < 3; dy++ {
		for dx := 0; dx < 3; dx++ {
			if sn[dy][dx].Lum != 0.7 {
				t.Fatalf("1x1 neighborhood[%d][%d] = %+v", dy, dx, sn[dy][dx])
			}
		}
	}
}
