// Package editlog is the durable record of applied block edits: one JSON
// line per edit, appended to hour-rotated zstd files under <data>/edits.
package editlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/idontknowwhatmyusernameshouldbe1/MinerLife/internal/sim/world"
)

// Logger satisfies world.EditLogger. Safe for concurrent use; the zstd frame
// is flushed after every edit, so a restart mid-hour appends a new frame to
// the same file and readers decode the frames back to back.
type Logger struct {
	dir string

	mu   sync.Mutex
	hour string
	f    *os.File
	enc  *zstd.Encoder
	buf  *bufio.Writer
}

func New(dataDir string) *Logger {
	return &Logger{dir: filepath.Join(dataDir, "edits")}
}

func (l *Logger) WriteEdit(e world.EditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != l.hour {
		if err := l.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := l.buf.Write(b); err != nil {
		return err
	}
	if err := l.buf.WriteByte('\n'); err != nil {
		return err
	}
	// Edits are rare relative to ticks; losing one to a crash costs more
	// than skipping write batching.
	return l.buf.Flush()
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *Logger) rotateLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(l.dir, fmt.Sprintf("edits-%s.jsonl.zst", hour))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.buf = bufio.NewWriterSize(enc, 128*1024)
	l.hour = hour
	return nil
}

func (l *Logger) closeLocked() error {
	var err error
	if l.buf != nil {
		_ = l.buf.Flush()
	}
	if l.enc != nil {
		err = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.buf = nil
	return err
}
