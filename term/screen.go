// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/screen.go
// Summary: tcell-backed sink applying frame diffs to a terminal.

// Package term connects render pipelines to real terminals: a tcell sink
// for diffs, capability probing for strategy auto-selection, and a session
// loop driving frame sources at a target rate.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcast/raster"
)

// Sink receives frame diffs. Apply stages updates; Show flushes them to the
// output in one batch.
type Sink interface {
	Size() (int, int)
	Apply(updates []raster.CellUpdate)
	Show()
}

// Screen adapts a tcell.Screen to the Sink interface and feeds its events
// into a channel the session loop drains.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
}

// New allocates and initializes a screen on the current terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate screen: %w", err)
	}
	return NewWith(s)
}

// NewWith wraps an existing tcell screen, typically a SimulationScreen in
// tests. The screen is initialized here and owned by the returned Screen.
func NewWith(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	s.HideCursor()
	scr := &Screen{screen: s, events: make(chan tcell.Event, 8)}
	go scr.pump()
	return scr, nil
}

// pump forwards terminal events until the screen is finalized.
func (s *Screen) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			close(s.events)
			return
		}
		s.events <- ev
	}
}

// Events returns the terminal event stream. The channel closes when the
// screen is finalized.
func (s *Screen) Events() <-chan tcell.Event { return s.events }

// Fini restores the terminal.
func (s *Screen) Fini() { s.screen.Fini() }

// Size returns the terminal dimensions in cells.
func (s *Screen) Size() (int, int) { return s.screen.Size() }

// Apply stages a frame diff. Nothing reaches the terminal until Show.
func (s *Screen) Apply(updates []raster.CellUpdate) {
	for _, u := range updates {
		s.screen.SetContent(u.X, u.Y, u.Cell.Ch, nil, u.Cell.Style)
	}
}

// Show flushes staged updates to the terminal.
func (s *Screen) Show() { s.screen.Show() }

// Sync forces a full repaint, used after resize events.
func (s *Screen) Sync() { s.screen.Sync() }

// Underlying exposes the wrapped tcell.Screen for callers that need direct
// access, such as capability queries.
func (s *Screen) Underlying() tcell.Screen { return s.screen }
