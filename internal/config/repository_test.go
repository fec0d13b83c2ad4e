package config

import (
	"context"
	"testing"

	"zenflow/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should create sqlite store in the configured dir", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Store.Dir = t.TempDir()

		s, err := CreateStore(ctx, cfg)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Set(ctx, "zf_user", []byte(`{}`)))
		_, ok, err := s.Get(ctx, "zf_user")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should create memory store", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Store.Backend = BackendMemory

		s, err := CreateStore(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &store.Memory{}, s)
	})

	t.Run("should fail for an unparseable redis url", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Store.Backend = BackendRedis
		cfg.Store.RedisURL = "::bad::"

		_, err := CreateStore(ctx, cfg)
		assert.Error(t, err)
	})
}

func TestCreateTestStore(t *testing.T) {
	s, err := CreateTestStore(context.Background())
	require.NoError(t, err)
	defer s.Close()

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
