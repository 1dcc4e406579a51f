// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/caps.go
// Summary: Terminal capability probing for strategy auto-selection.

package term

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	xterm "golang.org/x/term"

	"github.com/framegrace/texelcast/raster"
)

// DetectCaps probes the environment for color depth and interactivity.
// COLORTERM wins over terminal-specific variables, which win over TERM
// substrings; anything unrecognized is assumed to be a 256-color terminal.
func DetectCaps() raster.Caps {
	caps := raster.Caps{
		Colors:      256,
		Interactive: xterm.IsTerminal(int(os.Stdout.Fd())),
	}

	if os.Getenv("TERM") == "dumb" {
		caps.Colors = 0
		return caps
	}

	switch os.Getenv("COLORTERM") {
	case "truecolor", "24bit":
		caps.Truecolor = true
		return caps
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		caps.Truecolor = true
		return caps
	}

	term := os.Getenv("TERM")
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		caps.Truecolor = true
		return caps
	}
	if !strings.Contains(term, "256") && term != "" {
		caps.Colors = 16
	}
	return caps
}

// CapsFromScreen refines the environment probe with what the live screen
// reports. A screen that can express more colors than the probe guessed
// wins; a more limited one caps the result.
func CapsFromScreen(s tcell.Screen) raster.Caps {
	caps := DetectCaps()
	if n := s.Colors(); n > 0 {
		caps.Colors = n
		if n >= 1<<24 {
			caps.Truecolor = true
		}
	}
	return caps
}
