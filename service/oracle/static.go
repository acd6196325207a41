package oracle

import (
	"context"
	"sync"

	"lending/core"

	"github.com/shopspring/decimal"
)

type quote struct {
	value    decimal.Decimal
	decimals int32
}

// Static fixed prices, loaded from config or set by tests
type Static struct {
	mu     sync.RWMutex
	prices map[string]quote
}

// NewStatic new static oracle
func NewStatic() *Static {
	return &Static{prices: map[string]quote{}}
}

var _ core.PriceOracle = (*Static)(nil)

func pairKey(base, quote string) string {
	return base + "/" + quote
}

// Set price of base in quote, value is scaled by 10^decimals
func (o *Static) Set(base, quoteSymbol string, value decimal.Decimal, decimals int32) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.prices[pairKey(base, quoteSymbol)] = quote{value: value, decimals: decimals}
}

func (o *Static) Price(ctx context.Context, base, quoteSymbol string) (decimal.Decimal, int32, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	q, ok := o.prices[pairKey(base, quoteSymbol)]
	if !ok {
		return decimal.Zero, 0, core.ErrPriceUnavailable
	}

	return q.value, q.decimals, nil
}
