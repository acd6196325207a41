package kv

import (
	"context"
	"time"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/jmoiron/sqlx/types"
)

// Entry persisted key value pair
type Entry struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	EntryKey  string         `sql:"size:191;unique_index:entry_key_idx" json:"entry_key"`
	Value     types.JSONText `sql:"type:TEXT" json:"value"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(Entry{})
		if err := tx.AutoMigrate(Entry{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type dbStore struct {
	db *db.DB
}

// NewDB new database backed store
func NewDB(db *db.DB) Store {
	return &dbStore{db: db}
}

func (s *dbStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry Entry
	if err := s.db.View().Where("entry_key = ?", key).First(&entry).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}

		logger.FromContext(ctx).WithError(err).Errorln("kv.Get")
		return nil, false, err
	}

	return []byte(entry.Value), true, nil
}

func (s *dbStore) Set(ctx context.Context, key string, value []byte) error {
	return s.db.Tx(func(tx *db.DB) error {
		return set(tx, key, value)
	})
}

func (s *dbStore) Remove(ctx context.Context, key string) error {
	return s.db.Tx(func(tx *db.DB) error {
		return tx.Update().Where("entry_key = ?", key).Delete(Entry{}).Error
	})
}

// WriteBatch apply writes in one database transaction
func (s *dbStore) WriteBatch(ctx context.Context, writes []Write) error {
	err := s.db.Tx(func(tx *db.DB) error {
		for _, w := range writes {
			if w.Deleted {
				if err := tx.Update().Where("entry_key = ?", w.Key).Delete(Entry{}).Error; err != nil {
					return err
				}
				continue
			}

			if err := set(tx, w.Key, w.Value); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("kv.WriteBatch")
	}

	return err
}

func set(tx *db.DB, key string, value []byte) error {
	entry := Entry{EntryKey: key}
	return tx.Update().
		Where("entry_key = ?", key).
		Assign(Entry{Value: types.JSONText(value)}).
		FirstOrCreate(&entry).Error
}

var _ core.PersistentStore = (*dbStore)(nil)
