package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetAdd(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok := m.Get(ctx, "abc")
	assert.False(t, ok)

	m.Add(ctx, "abc", 42)
	n, ok := m.Get(ctx, "abc")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	m.Add(ctx, "zero", 0)
	n, ok = m.Get(ctx, "zero")
	assert.True(t, ok, "a cached zero must be a hit")
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, m.Len())
}

func TestLRU_Evicts(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRU(2)
	require.NoError(t, err)

	c.Add(ctx, "a", 1)
	c.Add(ctx, "b", 2)
	c.Add(ctx, "c", 3)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	n, ok := c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, c.Len())
}

func TestNew(t *testing.T) {
	s, err := New(0)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = New(10)
	require.NoError(t, err)
	assert.IsType(t, &LRU{}, s)

	_, err = NewLRU(0)
	assert.Error(t, err)
}

func TestRedis_DegradesToLocal(t *testing.T) {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	local := NewMemory()
	r := NewRedis(rdb, local)

	_, ok := r.Get(ctx, "missing")
	assert.False(t, ok)

	r.Add(ctx, "sha1", 7)
	n, ok := r.Get(ctx, "sha1")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	assert.Equal(t, 1, local.Len())
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect("not a url")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(0, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(8, "redis://127.0.0.1:1/0")
	require.NoError(t, err)
	assert.IsType(t, &LRU{}, s, "unreachable redis falls back to the local tier")

	_, err = Open(-1, "")
	assert.NoError(t, err)
}
