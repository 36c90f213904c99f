package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AppendFile opens Path in append mode for every write, so each record is a
// single append and no handle is held between records.
type AppendFile struct {
	Path string
}

func (a AppendFile) Write(p []byte) (int, error) {
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(p)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// fallbackWriter never fails: a primary write error is reported on the
// secondary writer together with the record that was lost.
type fallbackWriter struct {
	primary   io.Writer
	secondary io.Writer
}

// WithFallback wraps primary so that its failures go to secondary instead of
// the caller.
func WithFallback(primary, secondary io.Writer) io.Writer {
	return &fallbackWriter{primary: primary, secondary: secondary}
}

func (w *fallbackWriter) Write(p []byte) (int, error) {
	if _, err := w.primary.Write(p); err != nil {
		fmt.Fprintf(w.secondary, "log sink unavailable: %v: %s", err, p)
		if len(p) == 0 || p[len(p)-1] != '\n' {
			fmt.Fprintln(w.secondary)
		}
	}
	return len(p), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSink builds the writer described by opts: the log file (rotated by
// lumberjack when opts.Rotate is set), guarded by a stderr fallback, plus
// stdout when requested. The returned closer releases the rotating file.
func NewSink(opts Options) (io.Writer, io.Closer) {
	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)

	if opts.File != "" {
		var file io.Writer = AppendFile{Path: opts.File}
		if opts.Rotate {
			lj := &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    opts.MaxSizeMB,
				MaxBackups: opts.MaxBackups,
				MaxAge:     opts.MaxAgeDays,
				Compress:   opts.Compress,
			}
			file, closer = lj, lj
		}
		writers = append(writers, WithFallback(file, os.Stderr))
	}
	if opts.Stdout || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	if len(writers) == 1 {
		return writers[0], closer
	}
	return zerolog.MultiLevelWriter(writers...), closer
}

// MemorySink is an in-memory sink for tests.
type MemorySink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (m *MemorySink) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

// String returns everything written so far.
func (m *MemorySink) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.String()
}

// Lines returns the non-empty records written so far.
func (m *MemorySink) Lines() []string {
	var out []string
	for _, line := range strings.Split(m.String(), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
