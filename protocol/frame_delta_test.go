package protocol

import (
	"errors"
	"strings"
	"testing"
)

func sampleDelta() *FrameDelta {
	return &FrameDelta{
		GridW: 80,
		GridH: 24,
		Flags: DeltaFull,
		Styles: []StyleEntry{
			{AttrFlags: AttrBold, FgModel: ColorRGB, FgValue: 0x112233, BgModel: ColorDefault, BgValue: 0},
			{AttrFlags: AttrDim, FgModel: ColorANSI16, FgValue: 3, BgModel: ColorRGB, BgValue: 0x445566},
		},
		Rows: []RowDelta{
			{Row: 0, Spans: []CellSpan{{StartCol: 0, StyleIndex: 0, Text: "@@##"}}},
			{Row: 5, Spans: []CellSpan{
				{StartCol: 2, StyleIndex: 1, Text: "│╱"},
				{StartCol: 10, StyleIndex: 0, Text: "..."},
			}},
		},
	}
}

func TestFrameDeltaRoundTrip(t *testing.T) {
	delta := sampleDelta()

	payload, err := EncodeFrameDelta(delta)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeFrameDelta(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.GridW != delta.GridW || decoded.GridH != delta.GridH || decoded.Flags != delta.Flags {
		t.Fatalf("metadata mismatch: %+v", decoded)
	}
	if len(decoded.Styles) != len(delta.Styles) || len(decoded.Rows) != len(delta.Rows) {
		t.Fatalf("table size mismatch: %d styles %d rows", len(decoded.Styles), len(decoded.Rows))
	}
	for i := range delta.Styles {
		if decoded.Styles[i] != delta.Styles[i] {
			t.Fatalf("style %d mismatch: %#v vs %#v", i, decoded.Styles[i], delta.Styles[i])
		}
	}
	for i := range delta.Rows {
		if decoded.Rows[i].Row != delta.Rows[i].Row || len(decoded.Rows[i].Spans) != len(delta.Rows[i].Spans) {
			t.Fatalf("row mismatch")
		}
		for j := range delta.Rows[i].Spans {
			got := decoded.Rows[i].Spans[j]
			want := delta.Rows[i].Spans[j]
			if got.StartCol != want.StartCol || got.StyleIndex != want.StyleIndex || got.Text != want.Text {
				t.Fatalf("span mismatch: %#v vs %#v", got, want)
			}
		}
	}
}

func TestFrameDeltaEmptyRoundTrip(t *testing.T) {
	delta := &FrameDelta{GridW: 10, GridH: 4}
	payload, err := EncodeFrameDelta(delta)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeFrameDelta(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded.Styles) != 0 || len(decoded.Rows) != 0 {
		t.Fatalf("expected empty delta, got %#v", decoded)
	}
	if decoded.CellCount() != 0 {
		t.Fatalf("expected zero cells, got %d", decoded.CellCount())
	}
}

func TestFrameDeltaTruncated(t *testing.T) {
	payload, err := EncodeFrameDelta(sampleDelta())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// Every prefix must fail cleanly, never panic.
	for cut := 0; cut < len(payload); cut++ {
		if _, err := DecodeFrameDelta(payload[:cut]); !errors.Is(err, errPayloadShort) {
			t.Fatalf("cut %d: expected errPayloadShort, got %v", cut, err)
		}
	}
}

func TestFrameDeltaBadStyleIndex(t *testing.T) {
	delta := &FrameDelta{
		GridW:  4,
		GridH:  1,
		Styles: []StyleEntry{{}},
		Rows:   []RowDelta{{Row: 0, Spans: []CellSpan{{StartCol: 0, StyleIndex: 7, Text: "x"}}}},
	}
	if _, err := EncodeFrameDelta(delta); !errors.Is(err, errInvalidSpan) {
		t.Fatalf("expected errInvalidSpan, got %v", err)
	}
}

func TestFrameDeltaTooLarge(t *testing.T) {
	delta := &FrameDelta{Styles: make([]StyleEntry, maxCount+1)}
	if _, err := EncodeFrameDelta(delta); !errors.Is(err, ErrDeltaTooLarge) {
		t.Fatalf("expected ErrDeltaTooLarge, got %v", err)
	}
}

func TestCellCount(t *testing.T) {
	delta := sampleDelta()
	if got := delta.CellCount(); got != 9 {
		t.Fatalf("expected 9 cells, got %d", got)
	}
}

func BenchmarkEncodeFrameDelta(b *testing.B) {
	delta := &FrameDelta{
		GridW: 80,
		GridH: 24,
		Styles: []StyleEntry{
			{AttrFlags: AttrBold, FgModel: ColorRGB, FgValue: 0xFFFFFF, BgModel: ColorRGB, BgValue: 0x000000},
		},
		Rows: make([]RowDelta, 24),
	}
	for i := range delta.Rows {
		delta.Rows[i] = RowDelta{
			Row:   uint16(i),
			Spans: []CellSpan{{StartCol: 0, StyleIndex: 0, Text: strings.Repeat("@", 80)}},
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeFrameDelta(delta); err != nil {
			b.Fatal(err)
		}
	}
}
