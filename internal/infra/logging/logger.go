// Package logging writes the service's request lifecycle log.
//
// Every record is one line. The default text format is
//
//	[2025-01-02T15:04:05Z] [INFO] message key=value
//
// and the json format is zerolog's native encoding. Request-path code receives
// a *Logger explicitly; the package-level functions operate on a process-wide
// default that bootstrap code installs with InitLogger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a leveled structured logger bound to one sink.
type Logger struct {
	zl zerolog.Logger
}

// Options configures InitLogger.
type Options struct {
	File       string
	Level      string
	Format     string
	Stdout     bool
	Rotate     bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns a Logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level, format string, hooks ...zerolog.Hook) *Logger {
	if format != "json" {
		w = textWriter(w)
	}
	zl := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	for _, h := range hooks {
		zl = zl.Hook(h)
	}
	return &Logger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func textWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%v]", i)
		},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// With returns a child logger that adds kv to every record.
func (l *Logger) With(kv ...interface{}) *Logger {
	ctx := l.zl.With()
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			ctx = ctx.Interface("extra", kv[i])
			break
		}
		ctx = ctx.Interface(key, kv[i+1])
	}
	return &Logger{zl: ctx.Logger()}
}

// Info logs msg at INFO.
func (l *Logger) Info(msg string, kv ...interface{}) {
	logWithFields(l.zl.Info(), msg, kv)
}

// Warn logs msg at WARN.
func (l *Logger) Warn(msg string, kv ...interface{}) {
	logWithFields(l.zl.Warn(), msg, kv)
}

// Error logs msg at ERROR.
func (l *Logger) Error(msg string, kv ...interface{}) {
	logWithFields(l.zl.Error(), msg, kv)
}

func logWithFields(e *zerolog.Event, msg string, kv []interface{}) {
	if e == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			e = e.Interface("extra", kv[i])
			break
		}
		switch v := kv[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case time.Duration:
			e = e.Str(key, v.String())
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

var std = struct {
	sync.RWMutex
	logger *Logger
	closer io.Closer
}{logger: New(os.Stderr, "info", "text")}

// InitLogger installs the process-wide default logger and returns it.
func InitLogger(opts Options, hooks ...zerolog.Hook) *Logger {
	sink, closer := NewSink(opts)
	l := New(sink, opts.Level, opts.Format, hooks...)

	std.Lock()
	if std.closer != nil {
		_ = std.closer.Close()
	}
	std.logger = l
	std.closer = closer
	std.Unlock()
	return l
}

// Close releases the default logger's sink.
func Close() error {
	std.Lock()
	defer std.Unlock()
	if std.closer == nil {
		return nil
	}
	err := std.closer.Close()
	std.closer = nil
	return err
}

// Default returns the process-wide logger.
func Default() *Logger {
	std.RLock()
	defer std.RUnlock()
	return std.logger
}

// SetLogLevel changes the default logger's level; unknown values mean info.
func SetLogLevel(level string) {
	std.Lock()
	std.logger = &Logger{zl: std.logger.zl.Level(parseLevel(level))}
	std.Unlock()
}

// SetLoggerForTest replaces the default logger.
func SetLoggerForTest(zl zerolog.Logger) {
	std.Lock()
	std.logger = &Logger{zl: zl}
	std.Unlock()
}

// Info logs on the default logger.
func Info(msg string, kv ...interface{}) { Default().Info(msg, kv...) }

// Warn logs on the default logger.
func Warn(msg string, kv ...interface{}) { Default().Warn(msg, kv...) }

// Error logs on the default logger.
func Error(msg string, kv ...interface{}) { Default().Error(msg, kv...) }
