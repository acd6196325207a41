package kv

import (
	"context"
	"errors"
	"sync"

	"lending/core"
)

var (
	// ErrTxOpen Begin called twice
	ErrTxOpen = errors.New("kv: transaction already open")
	// ErrNoTx Commit without Begin
	ErrNoTx = errors.New("kv: no open transaction")
)

// Journal buffers writes of one operation on top of a Store
// and applies them as a single batch on Commit.
type Journal struct {
	base Store

	mu      sync.Mutex
	open    bool
	order   []string
	pending map[string]Write
}

// NewJournal new journal over base
func NewJournal(base Store) *Journal {
	return &Journal{base: base}
}

var _ core.PersistentStore = (*Journal)(nil)

// Begin start buffering writes
func (j *Journal) Begin() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.open {
		return ErrTxOpen
	}

	j.open = true
	j.order = nil
	j.pending = map[string]Write{}
	return nil
}

// Commit flush buffered writes to the base store
func (j *Journal) Commit(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.open {
		return ErrNoTx
	}

	writes := make([]Write, 0, len(j.order))
	for _, key := range j.order {
		writes = append(writes, j.pending[key])
	}

	j.reset()

	if len(writes) == 0 {
		return nil
	}

	return j.base.WriteBatch(ctx, writes)
}

// Rollback drop buffered writes
func (j *Journal) Rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.reset()
}

// Pending number of buffered writes
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.order)
}

func (j *Journal) reset() {
	j.open = false
	j.order = nil
	j.pending = nil
}

func (j *Journal) Get(ctx context.Context, key string) ([]byte, bool, error) {
	j.mu.Lock()
	if j.open {
		if w, ok := j.pending[key]; ok {
			j.mu.Unlock()
			if w.Deleted {
				return nil, false, nil
			}
			return append([]byte(nil), w.Value...), true, nil
		}
	}
	j.mu.Unlock()

	return j.base.Get(ctx, key)
}

func (j *Journal) Set(ctx context.Context, key string, value []byte) error {
	return j.write(ctx, Write{Key: key, Value: append([]byte(nil), value...)})
}

func (j *Journal) Remove(ctx context.Context, key string) error {
	return j.write(ctx, Write{Key: key, Deleted: true})
}

func (j *Journal) write(ctx context.Context, w Write) error {
	j.mu.Lock()
	if !j.open {
		j.mu.Unlock()
		return j.base.WriteBatch(ctx, []Write{w})
	}
	defer j.mu.Unlock()

	if _, ok := j.pending[w.Key]; !ok {
		j.order = append(j.order, w.Key)
	}
	j.pending[w.Key] = w
	return nil
}
