package host

import (
	"context"
	"time"

	"lending/core"
	"lending/pkg/id"
	"lending/service/event"
	"lending/store/kv"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Host runs operations one at a time, each one all or nothing
//
// Writes go through the journal and events through the buffer,
// both are applied only when the operation returns nil.
type Host struct {
	journal *kv.Journal
	events  *event.Buffer
	clock   clock.Clock
	metrics *Metrics

	lock chan struct{}
}

// New new host
func New(journal *kv.Journal, events *event.Buffer, clk clock.Clock, metrics *Metrics) *Host {
	return &Host{
		journal: journal,
		events:  events,
		clock:   clk,
		metrics: metrics,
		lock:    make(chan struct{}, 1),
	}
}

// Exec run fn as the operation name
func (h *Host) Exec(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	select {
	case h.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-h.lock }()

	start := time.Now()
	traceID := core.TraceID(ctx)
	if traceID == "" {
		traceID = id.GenTraceID()
	}
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"operation": name,
		"trace":     traceID,
		"caller":    core.CallerFrom(ctx),
	})

	ctx = logger.WithContext(ctx, log)
	ctx = core.WithTraceID(ctx, traceID)
	ctx = core.WithBlockTime(ctx, h.clock.Now())

	if err := h.journal.Begin(); err != nil {
		log.WithError(err).Errorln("journal.Begin")
		return err
	}
	h.events.Begin(traceID)

	defer func() {
		if r := recover(); r != nil {
			h.journal.Rollback()
			h.events.Discard()
			h.observe(name, "panic", start)
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		h.journal.Rollback()
		h.events.Discard()
		h.observe(name, core.KindOf(err).String(), start)
		log.WithError(err).Debugln("host: operation reverted")
		return err
	}

	if err = h.journal.Commit(ctx); err != nil {
		h.events.Discard()
		h.observe(name, "commit_failed", start)
		log.WithError(err).Errorln("journal.Commit")
		return err
	}

	published := len(h.events.Events())
	if err := h.events.Flush(ctx); err != nil {
		log.WithError(err).Errorln("events.Flush")
	} else if h.metrics != nil {
		h.metrics.Events.Add(float64(published))
	}

	h.observe(name, "ok", start)
	return nil
}

// View run the read only fn between operations, it never sees uncommitted writes
func (h *Host) View(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case h.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-h.lock }()

	return fn(core.WithBlockTime(ctx, h.clock.Now()))
}

func (h *Host) observe(name, result string, start time.Time) {
	if h.metrics == nil {
		return
	}

	h.metrics.Operations.WithLabelValues(name, result).Inc()
	h.metrics.Duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
