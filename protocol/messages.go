// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/messages.go
// Summary: Handshake and control message payloads. Frame content travels
// as FrameDelta; everything here is session bookkeeping around it.

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var (
	errStringTooLong = errors.New("protocol: string exceeds 64KB limit")
	errExtraBytes    = errors.New("protocol: payload has trailing data")
)

// Viewer capability bits advertised in Hello.
const (
	CapTruecolor uint32 = 1 << iota
	Cap256Color
	CapInteractive
)

// Hello initiates the handshake from viewer to caster.
type Hello struct {
	ViewerID     [16]byte
	ViewerName   string
	Capabilities uint32
}

// Welcome is returned by the caster acknowledging the handshake.
type Welcome struct {
	SessionID  [16]byte
	CasterName string
}

// SessionStart describes the render session a stream or recording carries.
// It is the first message after the handshake and the first record of every
// recording, so a player can rebuild a compatible pipeline.
type SessionStart struct {
	SessionID [16]byte
	GridW     uint16
	GridH     uint16
	FPS       uint16
	Strategy  string
	Palette   string
	Luminance string
	StartedAt int64
}

// Resize tells the peer the grid dimensions changed. The next FrameDelta
// after a Resize carries the DeltaFull flag.
type Resize struct {
	GridW uint16
	GridH uint16
}

// FrameAck acknowledges receipt of frame deltas up to the given sequence.
type FrameAck struct {
	Sequence uint64
}

// Bye informs the peer that the session is closing.
type Bye struct {
	ReasonCode uint16
	Message    string
}

// ErrorFrame communicates protocol-level errors.
type ErrorFrame struct {
	Code    uint16
	Message string
}

// Ping/Pong keep the connection alive.
type Ping struct {
	Timestamp int64
}

type Pong struct {
	Timestamp int64
}

func encodeString(buf *bytes.Buffer, value string) error {
	if len(value) > 0xFFFF {
		return errStringTooLong
	}
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(value))); err != nil {
		return err
	}
	if len(value) > 0 {
		if _, err := buf.WriteString(value); err != nil {
			return err
		}
	}
	return nil
}

func decodeString(b []byte) (string, []byte, error) {
	if len(b) < 2 {
		return "", nil, errPayloadShort
	}
	length := binary.LittleEndian.Uint16(b[:2])
	b = b[2:]
	if uint16(len(b)) < length {
		return "", nil, errPayloadShort
	}
	return string(b[:length]), b[length:], nil
}

func EncodeHello(h Hello) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 24+len(h.ViewerName)))
	buf.Write(h.ViewerID[:])
	if err := encodeString(buf, h.ViewerName); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, h.Capabilities); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeHello(b []byte) (Hello, error) {
	var h Hello
	if len(b) < 16 {
		return h, errPayloadShort
	}
	copy(h.ViewerID[:], b[:16])
	name, rest, err := decodeString(b[16:])
	if err != nil {
		return h, err
	}
	h.ViewerName = name
	if len(rest) < 4 {
		return h, errPayloadShort
	}
	h.Capabilities = binary.LittleEndian.Uint32(rest[:4])
	return h, nil
}

func EncodeWelcome(w Welcome) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 24+len(w.CasterName)))
	buf.Write(w.SessionID[:])
	if err := encodeString(buf, w.CasterName); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeWelcome(b []byte) (Welcome, error) {
	var w Welcome
	if len(b) < 16 {
		return w, errPayloadShort
	}
	copy(w.SessionID[:], b[:16])
	name, _, err := decodeString(b[16:])
	if err != nil {
		return w, err
	}
	w.CasterName = name
	return w, nil
}

func EncodeSessionStart(s SessionStart) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 48+len(s.Strategy)+len(s.Palette)+len(s.Luminance)))
	buf.Write(s.SessionID[:])
	binary.Write(buf, binary.LittleEndian, s.GridW)
	binary.Write(buf, binary.LittleEndian, s.GridH)
	binary.Write(buf, binary.LittleEndian, s.FPS)
	for _, field := range []string{s.Strategy, s.Palette, s.Luminance} {
		if err := encodeString(buf, field); err != nil {
			return nil, err
		}
	}
	binary.Write(buf, binary.LittleEndian, s.StartedAt)
	return buf.Bytes(), nil
}

func DecodeSessionStart(b []byte) (SessionStart, error) {
	var s SessionStart
	if len(b) < 22 {
		return s, errPayloadShort
	}
	copy(s.SessionID[:], b[:16])
	s.GridW = binary.LittleEndian.Uint16(b[16:18])
	s.GridH = binary.LittleEndian.Uint16(b[18:20])
	s.FPS = binary.LittleEndian.Uint16(b[20:22])
	rest := b[22:]
	var err error
	for _, field := range []*string{&s.Strategy, &s.Palette, &s.Luminance} {
		if *field, rest, err = decodeString(rest); err != nil {
			return s, err
		}
	}
	if len(rest) < 8 {
		return s, errPayloadShort
	}
	s.StartedAt = int64(binary.LittleEndian.Uint64(rest[:8]))
	return s, nil
}

func EncodeResize(r Resize) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 4))
	binary.Write(buf, binary.LittleEndian, r.GridW)
	binary.Write(buf, binary.LittleEndian, r.GridH)
	return buf.Bytes(), nil
}

func DecodeResize(b []byte) (Resize, error) {
	var r Resize
	if len(b) < 4 {
		return r, errPayloadShort
	}
	if len(b) > 4 {
		return r, errExtraBytes
	}
	r.GridW = binary.LittleEndian.Uint16(b[0:2])
	r.GridH = binary.LittleEndian.Uint16(b[2:4])
	return r, nil
}

func EncodeFrameAck(a FrameAck) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 8))
	binary.Write(buf, binary.LittleEndian, a.Sequence)
	return buf.Bytes(), nil
}

func DecodeFrameAck(b []byte) (FrameAck, error) {
	var a FrameAck
	if len(b) < 8 {
		return a, errPayloadShort
	}
	if len(b) > 8 {
		return a, errExtraBytes
	}
	a.Sequence = binary.LittleEndian.Uint64(b[:8])
	return a, nil
}

func EncodeBye(bye Bye) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 8+len(bye.Message)))
	binary.Write(buf, binary.LittleEndian, bye.ReasonCode)
	if err := encodeString(buf, bye.Message); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeBye(b []byte) (Bye, error) {
	var bye Bye
	if len(b) < 2 {
		return bye, errPayloadShort
	}
	bye.ReasonCode = binary.LittleEndian.Uint16(b[:2])
	msg, _, err := decodeString(b[2:])
	if err != nil {
		return bye, err
	}
	bye.Message = msg
	return bye, nil
}

func EncodeErrorFrame(e ErrorFrame) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 8+len(e.Message)))
	binary.Write(buf, binary.LittleEndian, e.Code)
	if err := encodeString(buf, e.Message); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeErrorFrame(b []byte) (ErrorFrame, error) {
	var e ErrorFrame
	if len(b) < 2 {
		return e, errPayloadShort
	}
	e.Code = binary.LittleEndian.Uint16(b[:2])
	msg, _, err := decodeString(b[2:])
	if err != nil {
		return e, err
	}
	e.Message = msg
	return e, nil
}

func EncodePing(p Ping) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 8))
	binary.Write(buf, binary.LittleEndian, p.Timestamp)
	return buf.Bytes(), nil
}

func DecodePing(b []byte) (Ping, error) {
	var p Ping
	if len(b) < 8 {
		return p, errPayloadShort
	}
	p.Timestamp = int64(binary.LittleEndian.Uint64(b[:8]))
	return p, nil
}

func EncodePong(p Pong) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 8))
	binary.Write(buf, binary.LittleEndian, p.Timestamp)
	return buf.Bytes(), nil
}

func DecodePong(b []byte) (Pong, error) {
	var p Pong
	if len(b) < 8 {
		return p, errPayloadShort
	}
	p.Timestamp = int64(binary.LittleEndian.Uint64(b[:8]))
	return p, nil
}
