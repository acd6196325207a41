package event

import (
	"context"
	"strconv"
	"sync"

	"lending/core"
	"lending/pkg/id"

	foxuuid "github.com/fox-one/pkg/uuid"
)

// Buffer holds the events of one operation until it commits
type Buffer struct {
	sink core.INotifier

	mu      sync.Mutex
	traceID string
	events  []*core.Event
}

// NewBuffer new buffer flushing into sink
func NewBuffer(sink core.INotifier) *Buffer {
	return &Buffer{sink: sink}
}

var _ core.INotifier = (*Buffer)(nil)

// Begin start collecting events for the operation traceID
func (b *Buffer) Begin(traceID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.traceID = traceID
	b.events = nil
}

func (b *Buffer) Notify(ctx context.Context, event *core.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if event.ID == "" {
		traceID := b.traceID
		if traceID == "" {
			traceID = id.GenTraceID()
		}
		event.ID = foxuuid.Modify(traceID, strconv.Itoa(len(b.events)))
	}

	b.events = append(b.events, event)
	return nil
}

// Events buffered events
func (b *Buffer) Events() []*core.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*core.Event(nil), b.events...)
}

// Flush hand buffered events to the sink
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.traceID = ""
	b.mu.Unlock()

	if b.sink == nil {
		return nil
	}

	for _, event := range events {
		if err := b.sink.Notify(ctx, event); err != nil {
			return err
		}
	}

	return nil
}

// Discard drop buffered events
func (b *Buffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = nil
	b.traceID = ""
}
