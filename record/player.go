// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: record/player.go
// Summary: Reads recorded sessions back as timed frame deltas. Seeking
// lands on the nearest full frame at or before the target so playback can
// resume from any point without replaying the whole file.

package record

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/framegrace/texelcast/protocol"
)

// Frame is one recorded frame with its timing.
type Frame struct {
	Seq     uint64
	Elapsed time.Duration
	Delta   *protocol.FrameDelta
}

// Player iterates the frames of a recording in sequence order.
type Player struct {
	db      *sql.DB
	start   protocol.SessionStart
	nextSeq int64
}

// Open opens a recording for playback and validates its schema version.
func Open(path string) (*Player, error) {
	db, err := openRecordDB(path)
	if err != nil {
		return nil, err
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != recordSchemaVersion {
		db.Close()
		return nil, fmt.Errorf("%w: found %d, want %d", ErrSchemaVersion, version, recordSchemaVersion)
	}

	var blob []byte
	err = db.QueryRow("SELECT value FROM meta WHERE key = ?", metaSessionStart).Scan(&blob)
	if err == sql.ErrNoRows {
		db.Close()
		return nil, ErrNoSession
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read session metadata: %w", err)
	}
	start, err := protocol.DecodeSessionStart(blob)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to decode session metadata: %w", err)
	}

	return &Player{db: db, start: start}, nil
}

// SessionStart returns the metadata the recording was created with.
func (p *Player) SessionStart() protocol.SessionStart {
	return p.start
}

// Next returns the next frame in sequence order, or io.EOF when the
// recording is exhausted.
func (p *Player) Next() (Frame, error) {
	var (
		seq       int64
		elapsedNs int64
		payload   []byte
	)
	err := p.db.QueryRow(
		"SELECT seq, elapsed_ns, payload FROM frames WHERE seq >= ? ORDER BY seq ASC LIMIT 1",
		p.nextSeq,
	).Scan(&seq, &elapsedNs, &payload)
	if err == sql.ErrNoRows {
		return Frame{}, io.EOF
	}
	if err != nil {
		return Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}

	delta, err := protocol.DecodeFrameDelta(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to decode frame %d: %w", seq, err)
	}

	p.nextSeq = seq + 1
	return Frame{
		Seq:     uint64(seq),
		Elapsed: time.Duration(elapsedNs),
		Delta:   delta,
	}, nil
}

// Rewind restarts playback from the first frame.
func (p *Player) Rewind() {
	p.nextSeq = 0
}

// SeekTo positions playback at the last full frame at or before the given
// elapsed offset, so the next frame read repaints the whole grid. Seeking
// before the first full frame rewinds to the start.
func (p *Player) SeekTo(elapsed time.Duration) error {
	var seq int64
	err := p.db.QueryRow(
		"SELECT seq FROM frames WHERE elapsed_ns <= ? AND full = 1 ORDER BY elapsed_ns DESC, seq DESC LIMIT 1",
		elapsed.Nanoseconds(),
	).Scan(&seq)
	if err == sql.ErrNoRows {
		p.nextSeq = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	p.nextSeq = seq
	return nil
}

// FrameCount reports how many frames the recording holds.
func (p *Player) FrameCount() (int64, error) {
	var count int64
	if err := p.db.QueryRow("SELECT COUNT(*) FROM frames").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}

// Duration reports the recording length. It prefers the stored duration and
// falls back to the last frame's offset for recordings cut short.
func (p *Player) Duration() (time.Duration, error) {
	var blob []byte
	err := p.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaDuration).Scan(&blob)
	if err == nil {
		if ns, perr := strconv.ParseInt(string(blob), 10, 64); perr == nil {
			return time.Duration(ns), nil
		}
	} else if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to read duration: %w", err)
	}

	var elapsedNs sql.NullInt64
	if err := p.db.QueryRow("SELECT MAX(elapsed_ns) FROM frames").Scan(&elapsedNs); err != nil {
		return 0, fmt.Errorf("failed to read duration: %w", err)
	}
	if !elapsedNs.Valid {
		return 0, nil
	}
	return time.Duration(elapsedNs.Int64), nil
}

// Close releases the underlying database.
func (p *Player) Close() error {
	return p.db.Close()
}
