// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/session.go
// Summary: Frame-rate loop wiring a frame source, pipeline and sink.
// Usage: Built by consumers such as cmd/texelcast; the library never starts
// a session on its own.

package term

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcast/raster"
)

// FrameSource produces one frame per tick. The returned buffer stays owned
// by the source and is treated read-only; sources may reuse one buffer
// across ticks.
type FrameSource interface {
	Frame(elapsed time.Duration) *raster.PixelBuffer
}

// DefaultFPS is the stock target frame rate.
const DefaultFPS = 30

// ErrNoPipeline reports a session started without its pipeline or sink.
var ErrNoPipeline = errors.New("term: session needs a pipeline and a sink")

// Session ties a pipeline to a sink and drives it at a fixed rate. All
// fields except Pipeline and Sink are optional.
type Session struct {
	Pipeline *raster.Pipeline
	Sink     Sink

	// Events, when set, makes the session react to terminal input: q,
	// Escape and Ctrl+C end the run, resize events trigger AutoResize.
	Events <-chan tcell.Event

	// AutoResize re-fits the grid to the sink size on resize events.
	AutoResize bool

	// OnFrame observes every committed diff, in order. Recording hooks in
	// here; a nil observer costs nothing.
	OnFrame func(seq uint64, elapsed time.Duration, diff []raster.CellUpdate)

	Logger *log.Logger
}

// Run renders frames from src at the target rate until the context ends, a
// quit key arrives or a render fails. A non-positive fps selects DefaultFPS.
func (s *Session) Run(ctx context.Context, src FrameSource, fps int) error {
	if s.Pipeline == nil || s.Sink == nil {
		return ErrNoPipeline
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.Events:
			if !ok {
				// screen torn down under us
				return nil
			}
			if quit := s.handleEvent(ev); quit {
				return nil
			}
		case <-ticker.C:
			elapsed := time.Since(start)
			diff, err := s.Pipeline.Render(src.Frame(elapsed))
			if err != nil {
				return err
			}
			s.Sink.Apply(diff)
			s.Sink.Show()
			if s.OnFrame != nil {
				s.OnFrame(seq, elapsed, diff)
			}
			seq++
		}
	}
}

func (s *Session) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return true
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return true
		}
	case *tcell.EventResize:
		if !s.AutoResize {
			return false
		}
		w, h := s.Sink.Size()
		if w < 1 || h < 1 {
			return false
		}
		if err := s.Pipeline.Resize(w, h); err != nil {
			if s.Logger != nil {
				s.Logger.Printf("resize rejected w=%d h=%d err=%v", w, h, err)
			}
			return false
		}
		if scr, ok := s.Sink.(*Screen); ok {
			scr.Sync()
		}
	}
	return false
}
