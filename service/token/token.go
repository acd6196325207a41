package token

import (
	"context"
	"fmt"

	"lending/core"
	"lending/pkg/lending"
	"lending/store/kv"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Ledger token balances kept in the persistent store
type Ledger struct {
	kv core.PersistentStore
}

// New new token ledger
func New(s core.PersistentStore) *Ledger {
	return &Ledger{kv: s}
}

var _ core.TokenTransfer = (*Ledger)(nil)

func balanceKey(symbol, holder string) string {
	return fmt.Sprintf("token/%s/%s", symbol, holder)
}

// Balance never funded holders read as zero
func (l *Ledger) Balance(ctx context.Context, symbol, holder string) (decimal.Decimal, error) {
	balance := decimal.Zero
	if _, err := kv.GetJSON(ctx, l.kv, balanceKey(symbol, holder), &balance); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

func (l *Ledger) Transfer(ctx context.Context, symbol, from, to string, amount decimal.Decimal) error {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"symbol": symbol,
		"from":   from,
		"to":     to,
		"amount": amount,
	})

	if err := lending.RequireAmount(amount); err != nil {
		return err
	}

	balance, err := l.Balance(ctx, symbol, from)
	if err != nil {
		return err
	}

	if balance.LessThan(amount) {
		log.Debugln("token: insufficient balance", balance)
		return core.ErrInsufficientBalance
	}

	if from == to {
		return nil
	}

	if err := l.set(ctx, symbol, from, balance.Sub(amount)); err != nil {
		return err
	}

	received, err := l.Balance(ctx, symbol, to)
	if err != nil {
		return err
	}

	if err := l.set(ctx, symbol, to, received.Add(amount)); err != nil {
		log.WithError(err).Errorln("token.Transfer")
		return err
	}

	return nil
}

// Mint issue amount to holder
func (l *Ledger) Mint(ctx context.Context, symbol, to string, amount decimal.Decimal) error {
	if err := lending.RequireAmount(amount); err != nil {
		return err
	}

	balance, err := l.Balance(ctx, symbol, to)
	if err != nil {
		return err
	}

	return l.set(ctx, symbol, to, balance.Add(amount))
}

func (l *Ledger) set(ctx context.Context, symbol, holder string, balance decimal.Decimal) error {
	if balance.IsZero() {
		return l.kv.Remove(ctx, balanceKey(symbol, holder))
	}

	return kv.SetJSON(ctx, l.kv, balanceKey(symbol, holder), balance)
}
