package logging

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var textLine = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[^\]]*\] \[(INFO|WARN|ERROR)\] `)

func TestTextFormat_OneBracketedLinePerRecord(t *testing.T) {
	sink := &MemorySink{}
	l := New(sink, "info", "text")

	l.Info("Converting markdown (theme: dark)")
	l.Warn("something odd", "code", 99)
	l.Error("File too large: 16000000 bytes")

	lines := sink.Lines()
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, textLine, line)
	}
	assert.Contains(t, lines[0], "[INFO] Converting markdown (theme: dark)")
	assert.Contains(t, lines[1], "[WARN] something odd")
	assert.Contains(t, lines[1], "code=99")
	assert.Contains(t, lines[2], "[ERROR] File too large: 16000000 bytes")
}

func TestJSONFormat_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.Info("test message", "foo", 42, "bar", true, "err", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"message":"test message"`)
	assert.Contains(t, out, `"foo":42`)
	assert.Contains(t, out, `"bar":true`)
	assert.Contains(t, out, `"err":"boom"`)
}

func TestLevelFiltering(t *testing.T) {
	sink := &MemorySink{}
	l := New(sink, "warn", "text")

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, sink.String(), "hidden")
	assert.Contains(t, sink.String(), "shown")
}

func TestWith_AddsFieldsAndToleratesDanglingKey(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json").With("request_id", "abc", "dangling")

	l.Info("hello", "k")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"extra":"dangling"`)
	assert.Contains(t, out, `"extra":"k"`)
}

func TestNop_DiscardsWithoutPanicking(t *testing.T) {
	l := Nop()
	l.Info("a")
	l.Warn("b")
	l.Error("c")
}

func TestDefaultLogger_SetLogLevelAndPackageFuncs(t *testing.T) {
	var buf bytes.Buffer
	SetLoggerForTest(zerolog.New(&buf).Level(zerolog.WarnLevel))

	Info("should be hidden")
	SetLogLevel("info")
	Info("should be visible", "k", "v")
	Warn("warn", "n", 1)
	Error("err", "ok", true)
	SetLogLevel("invalid-level")
	Info("still info")

	out := buf.String()
	assert.False(t, strings.Contains(out, "should be hidden"))
	assert.Contains(t, out, "should be visible")
	assert.Contains(t, out, `"n":1`)
	assert.Contains(t, out, `"ok":true`)
	assert.Contains(t, out, "still info")
}
