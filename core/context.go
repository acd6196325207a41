package core

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
)

type (
	callerKey    struct{}
	blockTimeKey struct{}
	traceKey     struct{}
)

// WithCaller bind the invoking principal to ctx
func WithCaller(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, callerKey{}, identity)
}

// CallerFrom invoking principal, empty if none
func CallerFrom(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// WithBlockTime fix the timestamp every component sees during one operation
func WithBlockTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, blockTimeKey{}, t.UTC())
}

// BlockTime operation timestamp, falls back to clk
func BlockTime(ctx context.Context, clk clock.Clock) time.Time {
	if t, ok := ctx.Value(blockTimeKey{}).(time.Time); ok {
		return t
	}

	return clk.Now().UTC()
}

// WithTraceID run the next operation under trace id instead of a random one
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID trace id bound to ctx, empty if none
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}
