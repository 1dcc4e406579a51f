package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcast/internal/scene"
	"github.com/framegrace/texelcast/protocol"
	"github.com/framegrace/texelcast/raster"
	"github.com/framegrace/texelcast/term"
)

// Pixels per cell, matching the texelcast binary so throughput numbers are
// comparable between the two.
const (
	cellPxW = 4
	cellPxH = 8
)

func main() {
	scenes := flag.String("scenes", "all", "comma-separated scene names, or all")
	strategies := flag.String("strategies", "ascii,color,edge", "comma-separated strategies to exercise")
	workers := flag.String("workers", "0,4", "comma-separated worker counts per combination")
	gridW := flag.Int("grid-w", 120, "output grid width in cells")
	gridH := flag.Int("grid-h", 40, "output grid height in cells")
	frames := flag.Int("frames", 300, "frames to render per combination")
	fps := flag.Int("fps", 60, "synthetic clock rate driving the scenes")
	wire := flag.Bool("wire", true, "encode every diff to count wire bytes")
	duration := flag.Duration("duration", 2*time.Minute, "abort the whole run after this long")
	flag.Parse()

	if *gridW < 1 || *gridH < 1 || *frames < 1 || *fps < 1 {
		log.Fatalf("grid, frames and fps must be positive")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	sceneNames := scene.Names()
	if *scenes != "all" {
		sceneNames = strings.Split(*scenes, ",")
	}

	strats := make([]raster.Strategy, 0, 3)
	for _, name := range strings.Split(*strategies, ",") {
		s, err := raster.ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			log.Fatalf("bad -strategies: %v", err)
		}
		strats = append(strats, s)
	}

	counts := make([]int, 0, 2)
	for _, tok := range strings.Split(*workers, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 0 {
			log.Fatalf("bad -workers entry %q", tok)
		}
		counts = append(counts, n)
	}

	run := runConfig{
		gridW:  *gridW,
		gridH:  *gridH,
		frames: *frames,
		tick:   time.Second / time.Duration(*fps),
		wire:   *wire,
	}

	for _, name := range sceneNames {
		for _, strat := range strats {
			for _, n := range counts {
				if err := stressCombo(ctx, run, name, strat, n); err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						fmt.Println("stress run aborted")
						return
					}
					log.Fatalf("stress scene=%s strategy=%s workers=%d failed: %v", name, strat, n, err)
				}
			}
		}
	}
	fmt.Println("stress run complete")
}

type runConfig struct {
	gridW, gridH int
	frames       int
	tick         time.Duration
	wire         bool
}

// stressCombo renders one scene/strategy/workers combination into a
// simulation screen at full speed and logs throughput for it.
func stressCombo(ctx context.Context, run runConfig, sceneName string, strat raster.Strategy, nworkers int) error {
	sim := tcell.NewSimulationScreen("UTF-8")
	scr, err := term.NewWith(sim)
	if err != nil {
		return fmt.Errorf("failed to init simulation screen: %w", err)
	}
	defer scr.Fini()
	sim.SetSize(run.gridW, run.gridH)

	pipe, err := raster.NewPipeline(raster.Config{
		GridW:         run.gridW,
		GridH:         run.gridH,
		Strategy:      strat,
		EdgeThreshold: 0.2,
		Workers:       nworkers,
		Terminal:      raster.Caps{Colors: 256, Truecolor: true},
	})
	if err != nil {
		return err
	}

	// Scenes run on their built-in parameters; stress must not depend on
	// the user's config profiles.
	src, err := scene.New(sceneName, run.gridW*cellPxW, run.gridH*cellPxH, nil)
	if err != nil {
		return err
	}

	var cells, wireBytes int
	start := time.Now()
	for i := 0; i < run.frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		diff, err := pipe.Render(src.Frame(time.Duration(i) * run.tick))
		if err != nil {
			return err
		}
		scr.Apply(diff)
		scr.Show()
		cells += len(diff)
		if run.wire && len(diff) > 0 {
			delta, err := protocol.FromUpdates(diff, run.gridW, run.gridH, i == 0)
			if err != nil {
				return err
			}
			payload, err := protocol.EncodeFrameDelta(delta)
			if err != nil {
				return err
			}
			wireBytes += len(payload)
		}
	}
	elapsed := time.Since(start)

	log.Printf("stress scene=%s strategy=%s workers=%d frames=%d elapsed=%s fps=%.0f cells=%d bytes=%d",
		sceneName, pipe.ResolvedStrategy(), nworkers, run.frames,
		elapsed.Round(time.Millisecond), float64(run.frames)/elapsed.Seconds(), cells, wireBytes)
	return nil
}
