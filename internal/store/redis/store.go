package redis

import (
	"context"
	"fmt"

	"zenflow/internal/errors"
	"zenflow/internal/store"

	"github.com/go-redis/redis/v8"
)

// DefaultPrefix namespaces every key this store writes
const DefaultPrefix = "zenflow:"

// Store keeps records as plain redis string values under a key prefix
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// Dial parses redisURL, connects and verifies the connection with PING
func Dial(ctx context.Context, redisURL, prefix string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.NewStorageError("parse redis url", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.NewStorageError("connect to redis", err)
	}
	return New(rdb, prefix), nil
}

// New wraps an existing client. An empty prefix uses DefaultPrefix.
func New(rdb redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get implements store.Store
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.NewStorageError("get "+key, err)
	}
	return val, true, nil
}

// Set implements store.Store. Records never expire.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.NewStorageError("set "+key, err)
	}
	return nil
}

// Delete implements store.Store
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.NewStorageError("delete "+key, err)
	}
	return nil
}

// Keys implements store.Store using SCAN so large keyspaces are not blocked
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		all    []string
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, fmt.Sprintf("%s*", s.prefix), 100).Result()
		if err != nil {
			return nil, errors.NewStorageError("scan keys", err)
		}
		all = append(all, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return store.TrimPrefix(all, s.prefix), nil
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.rdb.Close()
}
