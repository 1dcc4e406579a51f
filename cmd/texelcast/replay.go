// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelcast/replay.go
// Summary: Plays a .texelcast recording back through the terminal sink at
// recorded timing.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcast/protocol"
	"github.com/framegrace/texelcast/record"
	"github.com/framegrace/texelcast/term"
)

type replayOptions struct {
	Path  string
	Loop  bool
	Speed float64
}

func handleReplay(opts replayOptions) error {
	player, err := record.Open(opts.Path)
	if err != nil {
		return err
	}
	defer player.Close()

	frames, err := player.FrameCount()
	if err != nil {
		return err
	}
	duration, err := player.Duration()
	if err != nil {
		return err
	}

	if err := replaySession(player, opts); err != nil {
		return err
	}

	start := player.SessionStart()
	fmt.Printf("Played %s: %d frames, %s at %dx%d\n",
		filepath.Base(opts.Path), frames, duration.Round(time.Second), start.GridW, start.GridH)
	return nil
}

func replaySession(player *record.Player, opts replayOptions) error {
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}

	scr, err := term.New()
	if err != nil {
		return err
	}
	defer scr.Fini()

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

	events := scr.Events()
	wall := time.Now()
	for {
		frame, err := player.Next()
		if errors.Is(err, io.EOF) {
			if !opts.Loop {
				return nil
			}
			player.Rewind()
			wall = time.Now()
			continue
		}
		if err != nil {
			return err
		}

		target := wall.Add(time.Duration(float64(frame.Elapsed) / speed))
		if quit := waitUntil(ctx, scr, events, target); quit {
			return nil
		}
		scr.Apply(protocol.Updates(frame.Delta))
		scr.Show()
	}
}

// waitUntil sleeps until target while watching for quit keys, resizes and
// cancellation. It reports whether playback should stop.
func waitUntil(ctx context.Context, scr *term.Screen, events <-chan tcell.Event, target time.Time) bool {
	for {
		delay := time.Until(target)
		if delay <= 0 {
			return false
		}
		select {
		case <-ctx.Done():
			return true
		case ev, ok := <-events:
			if !ok {
				return true
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
					return true
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return true
				}
			case *tcell.EventResize:
				scr.Sync()
			}
		case <-time.After(delay):
			return false
		}
	}
}
