package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mdpreview/internal/domain"
)

// EventAppender persists log events, e.g. the Postgres archive.
type EventAppender interface {
	AppendEvent(ctx context.Context, ev domain.LogEvent) error
}

// EventHook copies every emitted record into an EventAppender from a
// background goroutine. Records that do not fit in the buffer are dropped so
// that logging never waits on the appender.
type EventHook struct {
	store   EventAppender
	events  chan domain.LogEvent
	stop    chan struct{}
	done    chan struct{}
	diag    io.Writer
	timeout time.Duration

	dropped   atomic.Int64
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewEventHook returns a hook with room for buffer pending events.
func NewEventHook(store EventAppender, buffer int) *EventHook {
	if buffer <= 0 {
		buffer = 1
	}
	return &EventHook{
		store:   store,
		events:  make(chan domain.LogEvent, buffer),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		diag:    os.Stderr,
		timeout: 2 * time.Second,
	}
}

// Run implements zerolog.Hook.
func (h *EventHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	ev := domain.LogEvent{Timestamp: time.Now().UTC(), Level: eventLevel(level), Message: msg}
	select {
	case h.events <- ev:
	default:
		h.dropped.Add(1)
		fmt.Fprintf(h.diag, "log archive full, dropped event: [%s] %s\n", ev.Level, ev.Message)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (h *EventHook) Dropped() int64 { return h.dropped.Load() }

// Start launches the writer goroutine. It is safe to call more than once.
func (h *EventHook) Start() {
	h.startOnce.Do(func() {
		go h.loop()
	})
}

// Close stops the writer after flushing buffered events.
func (h *EventHook) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
	h.Start()
	<-h.done
}

func (h *EventHook) loop() {
	defer close(h.done)
	for {
		select {
		case ev := <-h.events:
			h.append(ev)
		case <-h.stop:
			for {
				select {
				case ev := <-h.events:
					h.append(ev)
				default:
					return
				}
			}
		}
	}
}

func (h *EventHook) append(ev domain.LogEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := h.store.AppendEvent(ctx, ev); err != nil {
		fmt.Fprintf(h.diag, "log archive unavailable: %v\n", err)
	}
}

func eventLevel(level zerolog.Level) domain.Level {
	switch {
	case level >= zerolog.ErrorLevel && level != zerolog.NoLevel && level != zerolog.Disabled:
		return domain.LevelError
	case level == zerolog.WarnLevel:
		return domain.LevelWarn
	default:
		return domain.LevelInfo
	}
}
