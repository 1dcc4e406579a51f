package term

import "testing"

func clearColorEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"COLORTERM", "TERM", "KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "WEZTERM_PANE"} {
		t.Setenv(v, "")
	}
}

func TestDetectCapsTruecolor(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("COLORTERM", "truecolor")
	if caps := DetectCaps(); !caps.Truecolor {
		t.Fatalf("COLORTERM=truecolor not detected: %+v", caps)
	}

	clearColorEnv(t)
	t.Setenv("TERM", "xterm-direct")
	if caps := DetectCaps(); !caps.Truecolor {
		t.Fatalf("TERM=xterm-direct not detected: %+v", caps)
	}

	clearColorEnv(t)
	t.Setenv("KITTY_WINDOW_ID", "1")
	if caps := DetectCaps(); !caps.Truecolor {
		t.Fatalf("kitty env not detected: %+v", caps)
	}
}

func TestDetectCapsDumb(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("TERM", "dumb")
	caps := DetectCaps()
	if caps.Truecolor || caps.Colors != 0 {
		t.Fatalf("dumb terminal reported %+v", caps)
	}
}

func TestDetectCaps256(t *testing.T) {
	clearColorEnv(t)
	t.Setenv("TERM", "xterm-256color")
	caps := DetectCaps()
	if caps.Truecolor {
		t.Fatalf("xterm-256color must not report truecolor")
	}
	if caps.Colors != 256 {
		t.Fatalf("xterm-256color colors = %d", caps.Colors)
	}

	clearColorEnv(t)
	t.Setenv("TERM", "vt100")
	if caps := DetectCaps(); caps.Colors != 16 {
		t.Fatalf("vt100 colors = %d, want 16", caps.Colors)
	}
}
