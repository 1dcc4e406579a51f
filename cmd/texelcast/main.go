// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelcast/main.go
// Summary: Unified texelcast command: renders scenes to the terminal,
// records sessions and plays recordings back.
// Usage: Run `texelcast` to render the default scene; see -h for flags.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/framegrace/texelcast/config"
	"github.com/framegrace/texelcast/internal/scene"
	"github.com/framegrace/texelcast/protocol"
	"github.com/framegrace/texelcast/raster"
	"github.com/framegrace/texelcast/record"
	"github.com/framegrace/texelcast/term"
)

// Scene sources render at this many pixels per terminal cell. Cells are
// roughly twice as tall as wide, so 4x8 keeps world coordinates square.
const (
	cellPxW = 4
	cellPxH = 8
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("texelcast", flag.ContinueOnError)

	// Mode flags
	listScenes := fs.Bool("list-scenes", false, "List available scenes and exit")
	replayPath := fs.String("replay", "", "Play back a recording instead of rendering a scene")

	// Scene flags
	sceneName := fs.String("scene", "", "Scene to render (default from config)")
	gridSpec := fs.String("grid", "0x0", "Output grid in cells, WxH (0x0 = fit terminal)")

	// Render flags
	strategy := fs.String("strategy", "", "Render strategy: ascii, color, edge or auto")
	palette := fs.String("palette", "", "ASCII density ramp, darkest to lightest")
	threshold := fs.Float64("threshold", -1, "Edge gradient threshold on the 0..1 scale")
	fpsFlag := fs.Int("fps", 0, "Target frame rate (0 = config value)")

	// Recording flags
	doRecord := fs.Bool("record", false, "Record the session to a .texelcast file")
	recordDir := fs.String("record-dir", "", "Directory for recordings (default from config)")

	// Config flags
	configDir := fs.String("config", "", "Alternate config directory")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if *configDir != "" {
		config.SetRoot(*configDir)
	}
	cfg := config.System()
	if err := config.Err(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rc, fps, err := config.RenderSettings(cfg)
	if err != nil {
		return err
	}

	// Flags override the config file.
	if *strategy != "" {
		s, err := raster.ParseStrategy(*strategy)
		if err != nil {
			return err
		}
		rc.Strategy = s
	}
	if *palette != "" {
		rc.Palette = []rune(*palette)
	}
	if *threshold >= 0 {
		rc.EdgeThreshold = *threshold
	}
	if *fpsFlag != 0 {
		if *fpsFlag < 1 || *fpsFlag > 240 {
			return fmt.Errorf("fps %d out of range", *fpsFlag)
		}
		fps = *fpsFlag
	}

	gridW, gridH, err := parseGrid(*gridSpec)
	if err != nil {
		return err
	}

	// Command dispatch
	switch {
	case *listScenes:
		for _, name := range scene.Names() {
			fmt.Println(name)
		}
		return nil

	case *replayPath != "":
		return handleReplay(replayOptions{
			Path:  *replayPath,
			Loop:  cfg.GetBool("playback", "loop", false),
			Speed: cfg.GetFloat("playback", "speed", 1.0),
		})

	default:
		name := *sceneName
		if name == "" {
			name = cfg.GetString("", "defaultScene", "plasma")
		}

		recordInto := ""
		if *doRecord {
			recordInto = *recordDir
			if recordInto == "" {
				recordInto, err = config.RecordingDir(cfg)
				if err != nil {
					return fmt.Errorf("resolve recording dir: %w", err)
				}
			}
		}

		return handleCast(castOptions{
			Scene:     name,
			GridW:     gridW,
			GridH:     gridH,
			Render:    rc,
			FPS:       fps,
			RecordDir: recordInto,
		})
	}
}

// parseGrid parses a WxH cell spec. Zero on either axis fits the terminal.
func parseGrid(spec string) (int, int, error) {
	ws, hs, ok := strings.Cut(spec, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid grid %q (want WxH)", spec)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q (want WxH)", spec)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q (want WxH)", spec)
	}
	if w < 0 || h < 0 {
		return 0, 0, fmt.Errorf("invalid grid %q (want WxH)", spec)
	}
	return w, h, nil
}

type castOptions struct {
	Scene        string
	GridW, GridH int
	Render       raster.Config
	FPS          int
	RecordDir    string
}

type castResult struct {
	RecordingPath string
	Frames        uint64
	Elapsed       time.Duration
	Dropped       int
}

func handleCast(opts castOptions) error {
	res, err := castSession(opts)
	if err != nil {
		return err
	}
	if res.RecordingPath != "" {
		fmt.Printf("Recording saved: %s (%d frames, %s)\n",
			res.RecordingPath, res.Frames, res.Elapsed.Round(time.Second))
		if res.Dropped > 0 {
			fmt.Printf("  %d frames could not be recorded\n", res.Dropped)
		}
	}
	return nil
}

// castSession owns the screen for its whole lifetime so the summary prints
// on the restored terminal, not into the alternate buffer.
func castSession(opts castOptions) (castResult, error) {
	var res castResult

	names := scene.Names()
	if !slices.Contains(names, opts.Scene) {
		return res, fmt.Errorf("unknown scene %q (have: %s)", opts.Scene, strings.Join(names, ", "))
	}
	profile := config.Profile(opts.Scene)

	scr, err := term.New()
	if err != nil {
		return res, err
	}
	defer scr.Fini()

	rc := opts.Render
	rc.Terminal = term.CapsFromScreen(scr.Underlying())
	auto := opts.GridW == 0 || opts.GridH == 0
	rc.GridW, rc.GridH = opts.GridW, opts.GridH
	if auto {
		rc.GridW, rc.GridH = scr.Size()
	}

	pipeline, err := raster.NewPipeline(rc)
	if err != nil {
		return res, err
	}

	src, err := scene.New(opts.Scene, rc.GridW*cellPxW, rc.GridH*cellPxH, profile)
	if err != nil {
		return res, err
	}

	session := &term.Session{
		Pipeline:   pipeline,
		Sink:       scr,
		Events:     scr.Events(),
		AutoResize: auto,
	}

	var rec *record.Recorder
	if opts.RecordDir != "" {
		id := uuid.New()
		ramp := rc.Palette
		if ramp == nil {
			ramp = raster.DefaultPalette
		}
		start := protocol.SessionStart{
			SessionID: [16]byte(id),
			GridW:     uint16(rc.GridW),
			GridH:     uint16(rc.GridH),
			FPS:       uint16(opts.FPS),
			Strategy:  pipeline.ResolvedStrategy().String(),
			Palette:   string(ramp),
			Luminance: rc.Luminance.String(),
			StartedAt: time.Now().Unix(),
		}
		path := record.DefaultPath(opts.RecordDir, id)
		rec, err = record.Create(path, start)
		if err != nil {
			return res, err
		}
		res.RecordingPath = path
		session.OnFrame = func(seq uint64, elapsed time.Duration, diff []raster.CellUpdate) {
			w, h := pipeline.Grid()
			delta, err := protocol.FromUpdates(diff, w, h, seq == 0 || len(diff) == w*h)
			if err != nil {
				res.Dropped++
				return
			}
			if err := rec.Append(seq, elapsed, delta); err != nil {
				res.Dropped++
				return
			}
			res.Frames++
			res.Elapsed = elapsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	err = session.Run(ctx, src, opts.FPS)
	if rec != nil {
		if cerr := rec.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return res, err
}
