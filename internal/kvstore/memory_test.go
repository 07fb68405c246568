package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedMemory() (*Memory, *time.Time) {
	m := NewMemory()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	m.Now = func() time.Time { return *clock }
	return m, clock
}

func TestMemorySetGetExpiry(t *testing.T) {
	m, clock := newClockedMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	*clock = clock.Add(61 * time.Second)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySetReplaces(t *testing.T) {
	m, _ := newClockedMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "first", time.Minute))
	require.NoError(t, m.Set(ctx, "k", "second", time.Minute))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestMemorySetNX(t *testing.T) {
	m, clock := newClockedMemory()
	ctx := context.Background()

	won, err := m.SetNX(ctx, "k", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = m.SetNX(ctx, "k", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, won, "a live key refuses a second writer")

	// Expired keys behave like absent ones.
	*clock = clock.Add(2 * time.Minute)
	won, err = m.SetNX(ctx, "k", "third", time.Minute)
	require.NoError(t, err)
	assert.True(t, won)
}

func TestMemoryIncrWindow(t *testing.T) {
	m, clock := newClockedMemory()
	ctx := context.Background()

	n, err := m.Incr(ctx, "c", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The window is anchored at the first increment and not extended.
	*clock = clock.Add(30 * time.Minute)
	n, err = m.Incr(ctx, "c", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	*clock = clock.Add(31 * time.Minute)
	n, err = m.Incr(ctx, "c", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a lapsed window starts the counter over")
}

func TestMemoryGetCounter(t *testing.T) {
	m, _ := newClockedMemory()
	ctx := context.Background()

	_, err := m.Incr(ctx, "c", time.Hour)
	require.NoError(t, err)
	_, err = m.Incr(ctx, "c", time.Hour)
	require.NoError(t, err)

	v, ok, err := m.Get(ctx, "c")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestMemoryDelete(t *testing.T) {
	m, _ := newClockedMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, m.Delete(ctx, "k"))

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, m.Delete(ctx, "missing"))
}
