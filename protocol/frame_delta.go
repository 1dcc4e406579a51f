// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/frame_delta.go
// Summary: Compact wire encoding for rendered cell-grid deltas. A delta
// carries a deduplicated style table plus per-row spans of changed cells,
// so a steady scene costs a few bytes and a cut costs one full frame.

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// ColorModel tags how a style color value should be interpreted.
type ColorModel uint8

const (
	ColorDefault ColorModel = iota
	ColorANSI16
	ColorANSI256
	ColorRGB
)

// Attribute bits carried in StyleEntry.AttrFlags.
const (
	AttrBold uint16 = 1 << iota
	AttrUnderline
	AttrReverse
	AttrBlink
	AttrDim
	AttrItalic
)

// Delta-level flag bits.
const (
	// DeltaFull marks a delta that repaints every cell, emitted after a
	// resize or at the start of a stream.
	DeltaFull uint8 = 0x01
)

// StyleEntry is one row of a delta's style table. Color values hold an
// ANSI index or packed 0xRRGGBB depending on the model.
type StyleEntry struct {
	AttrFlags uint16
	FgModel   ColorModel
	FgValue   uint32
	BgModel   ColorModel
	BgValue   uint32
}

// CellSpan is a run of consecutive cells on one row sharing a style.
type CellSpan struct {
	StartCol   uint16
	StyleIndex uint16
	Text       string
}

// RowDelta collects the changed spans of a single grid row.
type RowDelta struct {
	Row   uint16
	Spans []CellSpan
}

// FrameDelta is the payload of a MsgFrameDelta message.
type FrameDelta struct {
	GridW  uint16
	GridH  uint16
	Flags  uint8
	Styles []StyleEntry
	Rows   []RowDelta
}

var (
	ErrDeltaTooLarge = errors.New("protocol: frame delta exceeds wire limits")

	errPayloadShort = errors.New("protocol: payload truncated")
	errInvalidSpan  = errors.New("protocol: span references unknown style")
)

const maxCount = 0xFFFF

// EncodeFrameDelta serialises d into a payload suitable for WriteMessage.
func EncodeFrameDelta(d *FrameDelta) ([]byte, error) {
	if len(d.Styles) > maxCount || len(d.Rows) > maxCount {
		return nil, ErrDeltaTooLarge
	}

	buf := bytes.NewBuffer(make([]byte, 0, 64))
	if err := binary.Write(buf, binary.LittleEndian, d.GridW); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, d.GridH); err != nil {
		return nil, err
	}
	buf.WriteByte(d.Flags)

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(d.Styles))); err != nil {
		return nil, err
	}
	for _, style := range d.Styles {
		if err := binary.Write(buf, binary.LittleEndian, style.AttrFlags); err != nil {
			return nil, err
		}
		buf.WriteByte(byte(style.FgModel))
		if err := binary.Write(buf, binary.LittleEndian, style.FgValue); err != nil {
			return nil, err
		}
		buf.WriteByte(byte(style.BgModel))
		if err := binary.Write(buf, binary.LittleEndian, style.BgValue); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(d.Rows))); err != nil {
		return nil, err
	}
	for _, row := range d.Rows {
		if len(row.Spans) > maxCount {
			return nil, ErrDeltaTooLarge
		}
		if err := binary.Write(buf, binary.LittleEndian, row.Row); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint16(len(row.Spans))); err != nil {
			return nil, err
		}
		for _, span := range row.Spans {
			if int(span.StyleIndex) >= len(d.Styles) {
				return nil, errInvalidSpan
			}
			text := []byte(span.Text)
			if len(text) > maxCount {
				return nil, ErrDeltaTooLarge
			}
			if err := binary.Write(buf, binary.LittleEndian, span.StartCol); err != nil {
				return nil, err
			}
			if err := binary.Write(buf, binary.LittleEndian, span.StyleIndex); err != nil {
				return nil, err
			}
			if err := binary.Write(buf, binary.LittleEndian, uint16(len(text))); err != nil {
				return nil, err
			}
			buf.Write(text)
		}
	}

	return buf.Bytes(), nil
}

// DecodeFrameDelta parses a MsgFrameDelta payload.
func DecodeFrameDelta(payload []byte) (*FrameDelta, error) {
	d := &FrameDelta{}
	rest := payload

	if len(rest) < 5 {
		return nil, errPayloadShort
	}
	d.GridW = binary.LittleEndian.Uint16(rest[0:2])
	d.GridH = binary.LittleEndian.Uint16(rest[2:4])
	d.Flags = rest[4]
	rest = rest[5:]

	if len(rest) < 2 {
		return nil, errPayloadShort
	}
	styleCount := int(binary.LittleEndian.Uint16(rest[0:2]))
	rest = rest[2:]

	if styleCount > 0 {
		if len(rest) < styleCount*12 {
			return nil, errPayloadShort
		}
		d.Styles = make([]StyleEntry, styleCount)
		for i := range d.Styles {
			d.Styles[i] = StyleEntry{
				AttrFlags: binary.LittleEndian.Uint16(rest[0:2]),
				FgModel:   ColorModel(rest[2]),
				FgValue:   binary.LittleEndian.Uint32(rest[3:7]),
				BgModel:   ColorModel(rest[7]),
				BgValue:   binary.LittleEndian.Uint32(rest[8:12]),
			}
			rest = rest[12:]
		}
	}

	if len(rest) < 2 {
		return nil, errPayloadShort
	}
	rowCount := int(binary.LittleEndian.Uint16(rest[0:2]))
	rest = rest[2:]

	if rowCount > 0 {
		d.Rows = make([]RowDelta, 0, rowCount)
	}
	for i := 0; i < rowCount; i++ {
		if len(rest) < 4 {
			return nil, errPayloadShort
		}
		row := RowDelta{Row: binary.LittleEndian.Uint16(rest[0:2])}
		spanCount := int(binary.LittleEndian.Uint16(rest[2:4]))
		rest = rest[4:]

		if spanCount > 0 {
			row.Spans = make([]CellSpan, 0, spanCount)
		}
		for j := 0; j < spanCount; j++ {
			if len(rest) < 6 {
				return nil, errPayloadShort
			}
			span := CellSpan{
				StartCol:   binary.LittleEndian.Uint16(rest[0:2]),
				StyleIndex: binary.LittleEndian.Uint16(rest[2:4]),
			}
			textLen := int(binary.LittleEndian.Uint16(rest[4:6]))
			rest = rest[6:]
			if len(rest) < textLen {
				return nil, errPayloadShort
			}
			if int(span.StyleIndex) >= styleCount {
				return nil, errInvalidSpan
			}
			span.Text = string(rest[:textLen])
			rest = rest[textLen:]
			row.Spans = append(row.Spans, span)
		}
		d.Rows = append(d.Rows, row)
	}

	return d, nil
}

// CellCount reports how many cells the delta repaints.
func (d *FrameDelta) CellCount() int {
	n := 0
	for _, row := range d.Rows {
		for _, span := range row.Spans {
			n += utf8.RuneCountInString(span.Text)
		}
	}
	return n
}
