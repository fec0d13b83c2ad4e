package config

import (
	"context"
	"fmt"
	"os"

	"zenflow/internal/store"
	"zenflow/internal/store/redis"
	"zenflow/internal/store/sqlite"
)

// CreateStore opens the record store selected by config.Store.Backend
func CreateStore(ctx context.Context, config *Config) (store.Store, error) {
	switch config.Store.Backend {
	case BackendMemory:
		return store.NewMemory(), nil
	case BackendRedis:
		s, err := redis.Dial(ctx, config.Store.RedisURL, config.Store.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis store: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.New(ctx, config.GetDatabasePath(), sqlite.Options{
			WriteTimeout:   config.Store.WriteTimeout,
			DirPermissions: os.FileMode(config.Store.DirPermissions),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return s, nil
	}
}

// CreateTestStore creates an in-memory sqlite store for testing
func CreateTestStore(ctx context.Context) (store.Store, error) {
	s, err := sqlite.New(ctx, ":memory:", sqlite.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return s, nil
}
