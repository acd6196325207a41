package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// QuoteUSD quote symbol used for every valuation
const QuoteUSD = "USD"

// Registry service names
const (
	ServiceAccountManager = "account_manager"
	ServiceOracle         = "oracle"
)

// ServicePool registry name of the pool for symbol
func ServicePool(symbol string) string {
	return fmt.Sprintf("pool:%s", symbol)
}

// PriceOracle price feed
type PriceOracle interface {
	// Price value of one base unit in quote, scaled by 10^decimals
	Price(ctx context.Context, base, quote string) (value decimal.Decimal, decimals int32, err error)
}

// TokenTransfer moves tokens between holders
type TokenTransfer interface {
	Transfer(ctx context.Context, symbol, from, to string, amount decimal.Decimal) error
	Balance(ctx context.Context, symbol, holder string) (decimal.Decimal, error)
}

// AuthGate caller authentication
type AuthGate interface {
	RequireCaller(ctx context.Context, identity string) error
	RequireAdmin(ctx context.Context) error
}

// Registry resolves service names to addresses
type Registry interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// PersistentStore key value storage, absent keys return ok == false
type PersistentStore interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
