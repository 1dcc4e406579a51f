// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/convert.go
// Summary: Conversion between compositor cell updates and wire deltas.
// Styles are interned into the delta's style table and consecutive
// same-style cells on a row collapse into a single span.

package protocol

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelcast/raster"
)

var attrBits = []struct {
	mask tcell.AttrMask
	bit  uint16
}{
	{tcell.AttrBold, AttrBold},
	{tcell.AttrUnderline, AttrUnderline},
	{tcell.AttrReverse, AttrReverse},
	{tcell.AttrBlink, AttrBlink},
	{tcell.AttrDim, AttrDim},
	{tcell.AttrItalic, AttrItalic},
}

func encodeColor(c tcell.Color) (ColorModel, uint32) {
	if c == tcell.ColorDefault || !c.Valid() {
		return ColorDefault, 0
	}
	if c.IsRGB() {
		return ColorRGB, uint32(c.Hex())
	}
	idx := uint32(c - tcell.ColorValid)
	if idx < 16 {
		return ColorANSI16, idx
	}
	return ColorANSI256, idx
}

func decodeColor(model ColorModel, value uint32) tcell.Color {
	switch model {
	case ColorANSI16, ColorANSI256:
		return tcell.PaletteColor(int(value))
	case ColorRGB:
		return tcell.NewHexColor(int32(value))
	default:
		return tcell.ColorDefault
	}
}

// EncodeStyle flattens a tcell style into a wire style table entry.
func EncodeStyle(style tcell.Style) StyleEntry {
	fg, bg, attrs := style.Decompose()
	var entry StyleEntry
	entry.FgModel, entry.FgValue = encodeColor(fg)
	entry.BgModel, entry.BgValue = encodeColor(bg)
	for _, a := range attrBits {
		if attrs&a.mask != 0 {
			entry.AttrFlags |= a.bit
		}
	}
	return entry
}

// DecodeStyle rebuilds a tcell style from a wire style table entry.
func DecodeStyle(entry StyleEntry) tcell.Style {
	var attrs tcell.AttrMask
	for _, a := range attrBits {
		if entry.AttrFlags&a.bit != 0 {
			attrs |= a.mask
		}
	}
	return tcell.StyleDefault.
		Foreground(decodeColor(entry.FgModel, entry.FgValue)).
		Background(decodeColor(entry.BgModel, entry.BgValue)).
		Attributes(attrs)
}

// FromUpdates packs a compositor diff into a frame delta. Updates must be in
// row-major order, which is what Compositor.Commit emits. Set full when the
// diff repaints the whole grid so receivers can treat it as a keyframe.
func FromUpdates(updates []raster.CellUpdate, gridW, gridH int, full bool) (*FrameDelta, error) {
	d := &FrameDelta{GridW: uint16(gridW), GridH: uint16(gridH)}
	if full {
		d.Flags |= DeltaFull
	}
	if len(updates) == 0 {
		return d, nil
	}

	styleIndex := make(map[StyleEntry]uint16)
	intern := func(style tcell.Style) (uint16, error) {
		entry := EncodeStyle(style)
		if idx, ok := styleIndex[entry]; ok {
			return idx, nil
		}
		if len(d.Styles) >= maxCount {
			return 0, ErrDeltaTooLarge
		}
		idx := uint16(len(d.Styles))
		d.Styles = append(d.Styles, entry)
		styleIndex[entry] = idx
		return idx, nil
	}

	var (
		row  *RowDelta
		span *CellSpan
		text []rune
		next int
	)
	flushSpan := func() {
		if span != nil {
			span.Text = string(text)
			row.Spans = append(row.Spans, *span)
			span = nil
			text = text[:0]
		}
	}
	flushRow := func() {
		flushSpan()
		if row != nil {
			d.Rows = append(d.Rows, *row)
			row = nil
		}
	}

	for _, u := range updates {
		idx, err := intern(u.Cell.Style)
		if err != nil {
			return nil, err
		}
		if row == nil || int(row.Row) != u.Y {
			flushRow()
			row = &RowDelta{Row: uint16(u.Y)}
		}
		if span == nil || int(span.StyleIndex) != int(idx) || u.X != next {
			flushSpan()
			span = &CellSpan{StartCol: uint16(u.X), StyleIndex: idx}
		}
		text = append(text, u.Cell.Ch)
		next = u.X + 1
	}
	flushRow()

	return d, nil
}

// Updates expands a frame delta back into compositor cell updates, one per
// rune. Every glyph on the wire occupies a single column.
func Updates(d *FrameDelta) []raster.CellUpdate {
	styles := make([]tcell.Style, len(d.Styles))
	for i, entry := range d.Styles {
		styles[i] = DecodeStyle(entry)
	}

	var out []raster.CellUpdate
	for _, row := range d.Rows {
		for _, span := range row.Spans {
			col := int(span.StartCol)
			style := tcell.StyleDefault
			if int(span.StyleIndex) < len(styles) {
				style = styles[span.StyleIndex]
			}
			for _, ch := range span.Text {
				out = append(out, raster.CellUpdate{
					X:    col,
					Y:    int(row.Row),
					Cell: raster.Cell{Ch: ch, Style: style},
				})
				col++
			}
		}
	}
	return out
}
