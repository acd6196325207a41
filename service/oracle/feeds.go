package oracle

import (
	"context"
	"sync"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Feeds price feeds by address, every call is served by the feed the
// registry resolves for the oracle service at that moment
type Feeds struct {
	registry core.Registry

	mu    sync.RWMutex
	feeds map[string]core.PriceOracle
}

// NewFeeds new feed set resolved through registry
func NewFeeds(registry core.Registry) *Feeds {
	return &Feeds{
		registry: registry,
		feeds:    map[string]core.PriceOracle{},
	}
}

var _ core.PriceOracle = (*Feeds)(nil)

// Add serve feed at address
func (f *Feeds) Add(address string, feed core.PriceOracle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.feeds[address] = feed
}

func (f *Feeds) Price(ctx context.Context, base, quote string) (decimal.Decimal, int32, error) {
	address, err := f.registry.Resolve(ctx, core.ServiceOracle)
	if err != nil {
		return decimal.Zero, 0, err
	}

	f.mu.RLock()
	feed, ok := f.feeds[address]
	f.mu.RUnlock()

	if !ok {
		logger.FromContext(ctx).Errorln("oracle: no feed at", address)
		return decimal.Zero, 0, core.ErrServiceNotFound
	}

	return feed.Price(ctx, base, quote)
}
