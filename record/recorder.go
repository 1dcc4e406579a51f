// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: record/recorder.go
// Summary: SQLite-backed session recorder. Frames are appended as encoded
// deltas through an async batch writer so the render loop never blocks on
// disk.

package record

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/framegrace/texelcast/protocol"
)

var (
	ErrClosed        = errors.New("record: recorder closed")
	ErrSchemaVersion = errors.New("record: unsupported recording schema version")
	ErrNoSession     = errors.New("record: recording has no session metadata")
)

// Current schema version. Bump when the table layout changes.
const recordSchemaVersion = 1

const recordSchema = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

-- Session metadata, keyed blobs
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL
);

-- One row per rendered frame
CREATE TABLE IF NOT EXISTS frames (
    seq INTEGER PRIMARY KEY,          -- render sequence number
    elapsed_ns INTEGER NOT NULL,      -- offset from session start
    full INTEGER NOT NULL DEFAULT 0,  -- 1 when the delta repaints every cell
    payload BLOB NOT NULL             -- encoded frame delta
);

-- Index for time-based seeking
CREATE INDEX IF NOT EXISTS idx_frames_elapsed ON frames(elapsed_ns);
`

const (
	metaSessionStart = "session_start"
	metaDuration     = "duration_ns"
)

// RecorderConfig tunes the async batch writer.
type RecorderConfig struct {
	// BatchSize is the number of frames to accumulate before flushing.
	// Default: 32.
	BatchSize int

	// BatchTimeout is how long to wait before flushing a partial batch.
	// Default: 250ms.
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the async frame channel. Default: 256.
	ChannelBuffer int
}

// DefaultRecorderConfig returns sensible defaults.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		BatchSize:     32,
		BatchTimeout:  250 * time.Millisecond,
		ChannelBuffer: 256,
	}
}

type frameEntry struct {
	seq     uint64
	elapsed time.Duration
	full    bool
	payload []byte
}

// Recorder persists a render session to a single SQLite file.
type Recorder struct {
	config RecorderConfig
	db     *sql.DB
	start  protocol.SessionStart

	frameChan chan frameEntry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu       sync.Mutex
	closed   bool
	lastSeen time.Duration
}

// DefaultPath places a recording named after the session under dir.
func DefaultPath(dir string, id uuid.UUID) string {
	return filepath.Join(dir, id.String()+".texelcast")
}

// Create opens a new recording file and stores the session metadata. The
// parent directory is created if missing.
func Create(path string, start protocol.SessionStart) (*Recorder, error) {
	return CreateWithConfig(path, start, DefaultRecorderConfig())
}

// CreateWithConfig creates a recorder with custom batching.
func CreateWithConfig(path string, start protocol.SessionStart, config RecorderConfig) (*Recorder, error) {
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = 250 * time.Millisecond
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = 256
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}

	db, err := openRecordDB(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(recordSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recording schema: %w", err)
	}
	if err := writeSchemaVersion(db); err != nil {
		db.Close()
		return nil, err
	}

	blob, err := protocol.EncodeSessionStart(start)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to encode session metadata: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", metaSessionStart, blob); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to store session metadata: %w", err)
	}

	r := &Recorder{
		config:    config,
		db:        db,
		start:     start,
		frameChan: make(chan frameEntry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go r.batchWriter()
	return r, nil
}

func openRecordDB(path string) (*sql.DB, error) {
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-8000)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to recording: %w", err)
	}
	return db, nil
}

func writeSchemaVersion(db *sql.DB) error {
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err == sql.ErrNoRows {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", recordSchemaVersion)
		if err != nil {
			return fmt.Errorf("failed to write schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != recordSchemaVersion {
		return fmt.Errorf("%w: found %d, want %d", ErrSchemaVersion, current, recordSchemaVersion)
	}
	return nil
}

// SessionStart returns the metadata the recording was created with.
func (r *Recorder) SessionStart() protocol.SessionStart {
	return r.start
}

// Append queues one frame for writing. It blocks if the writer falls more
// than a channel buffer behind, so recordings stay lossless.
func (r *Recorder) Append(seq uint64, elapsed time.Duration, delta *protocol.FrameDelta) error {
	payload, err := protocol.EncodeFrameDelta(delta)
	if err != nil {
		return fmt.Errorf("failed to encode frame %d: %w", seq, err)
	}
	entry := frameEntry{
		seq:     seq,
		elapsed: elapsed,
		full:    delta.Flags&protocol.DeltaFull != 0,
		payload: payload,
	}
	select {
	case r.frameChan <- entry:
		return nil
	case <-r.stopCh:
		return ErrClosed
	}
}

// batchWriter runs in a background goroutine, batching frames and flushing
// them in transactions.
func (r *Recorder) batchWriter() {
	defer close(r.doneCh)

	batch := make([]frameEntry, 0, r.config.BatchSize)
	timer := time.NewTimer(r.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		r.flushBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-r.frameChan:
			batch = append(batch, entry)
			if len(batch) >= r.config.BatchSize {
				flush()
				timer.Reset(r.config.BatchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(r.config.BatchTimeout)

		case done := <-r.flushCh:
			// Manual flush request, drain the channel first.
			draining := true
			for draining {
				select {
				case entry := <-r.frameChan:
					batch = append(batch, entry)
				default:
					draining = false
				}
			}
			flush()
			close(done)

		case <-r.stopCh:
			for {
				select {
				case entry := <-r.frameChan:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

// flushBatch writes a batch of frames in a single transaction.
func (r *Recorder) flushBatch(batch []frameEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		log.Printf("[RECORD] Failed to begin transaction: %v", err)
		return
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO frames (seq, elapsed_ns, full, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		log.Printf("[RECORD] Failed to prepare statement: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		isFull := 0
		if e.full {
			isFull = 1
		}
		if _, err := stmt.Exec(int64(e.seq), e.elapsed.Nanoseconds(), isFull, e.payload); err != nil {
			log.Printf("[RECORD] Failed to insert frame %d: %v", e.seq, err)
			tx.Rollback()
			return
		}
		if e.elapsed > r.lastSeen {
			r.lastSeen = e.elapsed
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[RECORD] Failed to commit batch: %v", err)
	}
}

// Flush blocks until every queued frame is on disk.
func (r *Recorder) Flush() error {
	done := make(chan struct{})
	select {
	case r.flushCh <- done:
		<-done
	case <-r.stopCh:
		return ErrClosed
	}
	return nil
}

// Close drains pending frames, stores the final duration, and closes the
// database. Further Appends return ErrClosed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh

	r.mu.Lock()
	duration := r.lastSeen
	r.mu.Unlock()

	value := strconv.FormatInt(duration.Nanoseconds(), 10)
	if _, err := r.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", metaDuration, []byte(value)); err != nil {
		log.Printf("[RECORD] Failed to store duration: %v", err)
	}

	return r.db.Close()
}
