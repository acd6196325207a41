package account

import (
	"context"
	"fmt"

	"lending/core"
	"lending/store/kv"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

const accountsKey = "accounts"

type accountStore struct {
	kv core.PersistentStore
}

// New new margin account store
func New(s core.PersistentStore) core.IAccountStore {
	return &accountStore{kv: s}
}

func accountKey(userID string) string {
	return fmt.Sprintf("account/%s", userID)
}

func (s *accountStore) Create(ctx context.Context, account *core.MarginAccount) error {
	_, ok, err := s.kv.Get(ctx, accountKey(account.UserID))
	if err != nil {
		return err
	}

	if ok {
		return core.ErrAccountExists
	}

	if err := kv.SetJSON(ctx, s.kv, accountKey(account.UserID), account); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Create")
		return err
	}

	return kv.AppendIndex(ctx, s.kv, accountsKey, account.UserID)
}

func (s *accountStore) Find(ctx context.Context, userID string) (*core.MarginAccount, error) {
	var account core.MarginAccount
	ok, err := kv.GetJSON(ctx, s.kv, accountKey(userID), &account)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Find")
		return nil, err
	}

	if !ok {
		return nil, core.ErrAccountNotFound
	}

	return &account, nil
}

func (s *accountStore) Update(ctx context.Context, account *core.MarginAccount) error {
	current, err := s.Find(ctx, account.UserID)
	if err != nil {
		return err
	}

	if current.Version != account.Version {
		return db.ErrOptimisticLock
	}

	account.Version++
	if err := kv.SetJSON(ctx, s.kv, accountKey(account.UserID), account); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Update")
		return err
	}

	return nil
}

func (s *accountStore) List(ctx context.Context) ([]string, error) {
	return kv.ListIndex(ctx, s.kv, accountsKey)
}
