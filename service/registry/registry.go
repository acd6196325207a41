package registry

import (
	"context"
	"sync"

	"lending/core"

	"github.com/fox-one/pkg/logger"
)

// Registry static name to address table
type Registry struct {
	mu        sync.RWMutex
	addresses map[string]string
}

// New new registry seeded with addresses
func New(addresses map[string]string) *Registry {
	r := &Registry{addresses: map[string]string{}}
	for name, address := range addresses {
		r.addresses[name] = address
	}

	return r
}

var _ core.Registry = (*Registry)(nil)

// Register bind name to address
func (r *Registry) Register(name, address string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addresses[name] = address
}

func (r *Registry) Resolve(ctx context.Context, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	address, ok := r.addresses[name]
	if !ok || address == "" {
		logger.FromContext(ctx).Errorln("registry: unresolved service", name)
		return "", core.ErrServiceNotFound
	}

	return address, nil
}
