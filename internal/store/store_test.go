package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "zf_user")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`{"level":1}`)
	require.NoError(t, m.Set(ctx, "zf_user", value))
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "zf_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"level":1}`, string(got), "stored value should be copied")

	require.NoError(t, m.Set(ctx, "zf_tasks", []byte(`[]`)))
	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zf_tasks", "zf_user"}, keys)

	require.NoError(t, m.Delete(ctx, "zf_user"))
	require.NoError(t, m.Delete(ctx, "zf_missing"))
	keys, err = m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zf_tasks"}, keys)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemory().Set(ctx, "k", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrimPrefix(t *testing.T) {
	keys := []string{"zenflow:zf_user", "other:zf_user", "zenflow:zf_tasks"}
	assert.Equal(t, []string{"zf_tasks", "zf_user"}, TrimPrefix(keys, "zenflow:"))
}
