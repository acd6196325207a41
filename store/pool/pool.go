package pool

import (
	"context"
	"fmt"

	"lending/core"
	"lending/store/kv"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

const poolsKey = "pools"

type poolStore struct {
	kv core.PersistentStore
}

// New new pool store
func New(s core.PersistentStore) core.IPoolStore {
	return &poolStore{kv: s}
}

func poolKey(symbol string) string {
	return fmt.Sprintf("pool/%s", symbol)
}

func lenderKey(symbol, lender string) string {
	return fmt.Sprintf("pool/%s/lender/%s", symbol, lender)
}

func lendersKey(symbol string) string {
	return fmt.Sprintf("pool/%s/lenders", symbol)
}

func borrowerKey(symbol, borrower string) string {
	return fmt.Sprintf("pool/%s/borrower/%s", symbol, borrower)
}

func borrowersKey(symbol string) string {
	return fmt.Sprintf("pool/%s/borrowers", symbol)
}

func (s *poolStore) Create(ctx context.Context, pool *core.Pool) error {
	var existing core.Pool
	ok, err := kv.GetJSON(ctx, s.kv, poolKey(pool.Symbol), &existing)
	if err != nil {
		return err
	}

	if ok {
		return core.ErrPoolExists
	}

	if err := kv.SetJSON(ctx, s.kv, poolKey(pool.Symbol), pool); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.Create")
		return err
	}

	return kv.AppendIndex(ctx, s.kv, poolsKey, pool.Symbol)
}

func (s *poolStore) Find(ctx context.Context, symbol string) (*core.Pool, error) {
	var pool core.Pool
	ok, err := kv.GetJSON(ctx, s.kv, poolKey(symbol), &pool)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.Find")
		return nil, err
	}

	if !ok {
		return nil, core.ErrPoolNotFound
	}

	return &pool, nil
}

func (s *poolStore) All(ctx context.Context) ([]*core.Pool, error) {
	symbols, err := kv.ListIndex(ctx, s.kv, poolsKey)
	if err != nil {
		return nil, err
	}

	pools := make([]*core.Pool, 0, len(symbols))
	for _, symbol := range symbols {
		pool, err := s.Find(ctx, symbol)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}

	return pools, nil
}

func (s *poolStore) Update(ctx context.Context, pool *core.Pool) error {
	current, err := s.Find(ctx, pool.Symbol)
	if err != nil {
		return err
	}

	if current.Version != pool.Version {
		return db.ErrOptimisticLock
	}

	pool.Version++
	if err := kv.SetJSON(ctx, s.kv, poolKey(pool.Symbol), pool); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.Update")
		return err
	}

	return nil
}

func (s *poolStore) FindLender(ctx context.Context, symbol, lender string) (*core.LenderPosition, bool, error) {
	position := core.LenderPosition{Symbol: symbol, Lender: lender, VTokenBalance: decimal.Zero}
	ok, err := kv.GetJSON(ctx, s.kv, lenderKey(symbol, lender), &position)
	if err != nil {
		return nil, false, err
	}

	return &position, ok, nil
}

func (s *poolStore) SaveLender(ctx context.Context, position *core.LenderPosition) error {
	if err := kv.SetJSON(ctx, s.kv, lenderKey(position.Symbol, position.Lender), position); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.SaveLender")
		return err
	}

	return kv.AppendIndex(ctx, s.kv, lendersKey(position.Symbol), position.Lender)
}

func (s *poolStore) ListLenders(ctx context.Context, symbol string) ([]*core.LenderPosition, error) {
	lenders, err := kv.ListIndex(ctx, s.kv, lendersKey(symbol))
	if err != nil {
		return nil, err
	}

	positions := make([]*core.LenderPosition, 0, len(lenders))
	for _, lender := range lenders {
		position, _, err := s.FindLender(ctx, symbol, lender)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	return positions, nil
}

func (s *poolStore) FindBorrower(ctx context.Context, symbol, borrower string) (*core.BorrowShareAccount, error) {
	account := core.BorrowShareAccount{Symbol: symbol, Borrower: borrower, Shares: decimal.Zero}
	if _, err := kv.GetJSON(ctx, s.kv, borrowerKey(symbol, borrower), &account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (s *poolStore) SaveBorrower(ctx context.Context, account *core.BorrowShareAccount) error {
	if account.Shares.IsZero() {
		return s.kv.Remove(ctx, borrowerKey(account.Symbol, account.Borrower))
	}

	if err := kv.SetJSON(ctx, s.kv, borrowerKey(account.Symbol, account.Borrower), account); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pools.SaveBorrower")
		return err
	}

	return kv.AppendIndex(ctx, s.kv, borrowersKey(account.Symbol), account.Borrower)
}

func (s *poolStore) ListBorrowers(ctx context.Context, symbol string) ([]*core.BorrowShareAccount, error) {
	borrowers, err := kv.ListIndex(ctx, s.kv, borrowersKey(symbol))
	if err != nil {
		return nil, err
	}

	accounts := make([]*core.BorrowShareAccount, 0, len(borrowers))
	for _, borrower := range borrowers {
		account, err := s.FindBorrower(ctx, symbol, borrower)
		if err != nil {
			return nil, err
		}

		if account.Shares.IsPositive() {
			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}
