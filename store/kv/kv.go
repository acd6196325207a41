package kv

import (
	"context"
	"encoding/json"

	"lending/core"
)

// Write one pending mutation
type Write struct {
	Key     string
	Value   []byte
	Deleted bool
}

// Store persistent store that can apply a batch atomically
type Store interface {
	core.PersistentStore
	WriteBatch(ctx context.Context, writes []Write) error
}

// GetJSON decode the value of key into v
func GetJSON(ctx context.Context, s core.PersistentStore, key string, v interface{}) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}

	return true, nil
}

// SetJSON encode v as the value of key
func SetJSON(ctx context.Context, s core.PersistentStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.Set(ctx, key, data)
}

// AppendIndex add member to the string list at key if absent
func AppendIndex(ctx context.Context, s core.PersistentStore, key, member string) error {
	var members []string
	if _, err := GetJSON(ctx, s, key, &members); err != nil {
		return err
	}

	for _, m := range members {
		if m == member {
			return nil
		}
	}

	return SetJSON(ctx, s, key, append(members, member))
}

// ListIndex string list at key
func ListIndex(ctx context.Context, s core.PersistentStore, key string) ([]string, error) {
	var members []string
	if _, err := GetJSON(ctx, s, key, &members); err != nil {
		return nil, err
	}

	return members, nil
}
