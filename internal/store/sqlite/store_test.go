package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"zenflow/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "data", "zenflow.db"), Options{WriteTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, ok, err := s.Get(ctx, "zf_user")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "zf_user", []byte(`{"level":1}`)))
	require.NoError(t, s.Set(ctx, "zf_user", []byte(`{"level":2}`)))

	got, ok, err := s.Get(ctx, "zf_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"level":2}`, string(got))
}

func TestStore_KeysAndDelete(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.Set(ctx, "zf_tasks", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "zf_stats", []byte(`{}`)))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zf_stats", "zf_tasks"}, keys)

	require.NoError(t, s.Delete(ctx, "zf_tasks"))
	require.NoError(t, s.Delete(ctx, "zf_never_written"))

	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zf_stats"}, keys)
}

func TestStore_UpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	fixed := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Set(ctx, "zf_focus", []byte(`{}`)))

	at, ok, err := s.UpdatedAt(ctx, "zf_focus")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fixed.Equal(at))
}

func TestStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "zenflow.db")

	first, err := New(ctx, path, Options{})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "zf_onboarding", []byte(`true`)))
	require.NoError(t, first.Close())

	second, err := New(ctx, path, Options{})
	require.NoError(t, err)
	defer second.Close()

	got, ok, err := second.Get(ctx, "zf_onboarding")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", string(got))
}

func TestStore_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, ":memory:", Options{})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Set(ctx, "zf_tasks", []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
}
