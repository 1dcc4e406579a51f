package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/framegrace/texelcast/config"
)

func TestRegistryNames(t *testing.T) {
	names := Names()
	want := []string{"bars", "orbit", "plasma"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestNewUnknownScene(t *testing.T) {
	if _, err := New("fireworks", 64, 32, nil); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("expected ErrUnknownScene, got %v", err)
	}
}

func TestScenesAreDeterministic(t *testing.T) {
	for _, name := range Names() {
		a, err := New(name, 64, 32, nil)
		if err != nil {
			t.Fatalf("New %s: %v", name, err)
		}
		b, err := New(name, 64, 32, nil)
		if err != nil {
			t.Fatalf("New %s: %v", name, err)
		}

		steps := []time.Duration{0, 33 * time.Millisecond, 66 * time.Millisecond}
		for _, elapsed := range steps {
			fa := a.Frame(elapsed)
			fb := b.Frame(elapsed)

			w, h := fa.Size()
			if w != 64 || h != 32 {
				t.Fatalf("%s: wrong frame size %dx%d", name, w, h)
			}
			for _, pt := range [][2]int{{0, 0}, {31, 15}, {63, 31}, {10, 20}} {
				pa := fa.At(pt[0], pt[1])
				pb := fb.At(pt[0], pt[1])
				if pa != pb {
					t.Fatalf("%s: frame diverged at %v: %v vs %v", name, pt, pa, pb)
				}
			}
		}
	}
}

func TestScenesProduceLight(t *testing.T) {
	for _, name := range Names() {
		src, err := New(name, 64, 32, nil)
		if err != nil {
			t.Fatalf("New %s: %v", name, err)
		}
		// Step a little so envelope-driven scenes have something to show.
		var lit bool
		for _, elapsed := range []time.Duration{0, 250 * time.Millisecond, 500 * time.Millisecond} {
			frame := src.Frame(elapsed)
			w, h := frame.Size()
			for y := 0; y < h && !lit; y++ {
				for x := 0; x < w; x++ {
					p := frame.At(x, y)
					if p.R > 0 || p.G > 0 || p.B > 0 {
						lit = true
						break
					}
				}
			}
		}
		if !lit {
			t.Fatalf("%s: rendered nothing but black", name)
		}
	}
}

func TestOrbitTrailFades(t *testing.T) {
	profile := config.Config{
		"orbit": map[string]interface{}{
			"bodies": 1,
			"trail":  0.5,
		},
	}
	src, err := New("orbit", 64, 32, profile)
	if err != nil {
		t.Fatalf("New orbit: %v", err)
	}

	first := src.Frame(0)
	w, h := first.Size()

	// Find the brightest pixel of the initial body position.
	var px, py int
	var brightest int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := first.At(x, y)
			sum := int(p.R) + int(p.G) + int(p.B)
			if sum > brightest {
				brightest, px, py = sum, x, y
			}
		}
	}
	if brightest == 0 {
		t.Fatalf("orbit body not drawn")
	}

	// Half an orbit later the body has moved away and only a faded trail
	// remains at the old position.
	frame := src.Frame(3 * time.Second)
	p := frame.At(px, py)
	if got := int(p.R) + int(p.G) + int(p.B); got >= brightest {
		t.Fatalf("expected trail to fade at (%d,%d): %d vs %d", px, py, got, brightest)
	}
}

func TestBarsRespectBandCount(t *testing.T) {
	profile := config.Config{
		"bars": map[string]interface{}{
			"bands": 4,
			"decay": 0.5,
		},
	}
	src, err := New("bars", 64, 32, profile)
	if err != nil {
		t.Fatalf("New bars: %v", err)
	}
	frame := src.Frame(400 * time.Millisecond)

	// The gap column between the first two bands stays black while bars glow.
	bandW := 64 / 4
	gapX := bandW - 1
	w, h := frame.Size()
	if w != 64 || h != 32 {
		t.Fatalf("wrong size %dx%d", w, h)
	}
	for y := 0; y < h; y++ {
		p := frame.At(gapX, y)
		if p.R != 0 || p.G != 0 || p.B != 0 {
			t.Fatalf("expected gap column %d to stay black, got %v at y=%d", gapX, p, y)
		}
	}
}
