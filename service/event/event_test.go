package event

import (
	"context"
	"testing"

	"lending/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []*core.Event
}

func (r *recorder) Notify(ctx context.Context, event *core.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestBuffer(t *testing.T) {
	ctx := context.Background()
	sink := &recorder{}
	b := NewBuffer(Multi(Logger(), sink))

	b.Begin("1b4c0b5e-7f3e-4c55-9b4c-2a0a3f3c1d10")
	require.Nil(t, b.Notify(ctx, &core.Event{Type: core.EventDeposit, Symbol: "XLM"}))
	require.Nil(t, b.Notify(ctx, &core.Event{Type: core.EventMint, Symbol: "XLM"}))
	assert.Len(t, b.Events(), 2)
	assert.Empty(t, sink.events)

	events := b.Events()
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)

	require.Nil(t, b.Flush(ctx))
	assert.Len(t, sink.events, 2)
	assert.Empty(t, b.Events())

	b.Begin("1b4c0b5e-7f3e-4c55-9b4c-2a0a3f3c1d11")
	require.Nil(t, b.Notify(ctx, &core.Event{Type: core.EventBorrow}))
	b.Discard()
	require.Nil(t, b.Flush(ctx))
	assert.Len(t, sink.events, 2)
}
