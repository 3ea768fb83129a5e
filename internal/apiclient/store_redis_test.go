package apiclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedisStore(t)

	stored := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.Set(ctx, "/customer/restaurant-info", Entry{Data: []byte(`{"name":"x"}`), StoredAt: stored}, time.Minute))

	e, err := s.Get(ctx, "/customer/restaurant-info")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(e.Data))
	assert.True(t, stored.Equal(e.StoredAt))

	assert.True(t, mr.Exists(redisKeyPrefix+"/customer/restaurant-info"))
	assert.Equal(t, time.Minute, mr.TTL(redisKeyPrefix+"/customer/restaurant-info"))
}

func TestRedisStore_Miss(t *testing.T) {
	s, _ := setupRedisStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedisStore(t)

	require.NoError(t, s.Set(ctx, "k", Entry{Data: []byte(`1`), StoredAt: time.Now()}, time.Second))
	mr.FastForward(2 * time.Second)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_DeleteMatching(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedisStore(t)

	for _, k := range []string{"/offers/public/", "/offers/eligible/3/", "/customer/menu-items/"} {
		require.NoError(t, s.Set(ctx, k, Entry{Data: []byte(`[]`), StoredAt: time.Now()}, time.Minute))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	n, err := s.DeleteMatching(ctx, "offers")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.Get(ctx, "/customer/menu-items/")
	assert.NoError(t, err)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisStore_ClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedisStore(t)

	require.NoError(t, s.Set(ctx, "a", Entry{Data: []byte(`1`)}, time.Minute))
	require.NoError(t, mr.Set("prefs:abc", "{}"))

	require.NoError(t, s.Clear(ctx))

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.True(t, mr.Exists("prefs:abc"))
}

func TestRedisStore_BackedCache(t *testing.T) {
	ctx := context.Background()
	s, _ := setupRedisStore(t)
	c := NewCache(s)

	calls := 0
	fetch := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"ok":true}`), nil
	}

	_, err := c.Get(ctx, "k", time.Minute, fetch)
	require.NoError(t, err)
	_, err = c.Get(ctx, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, c.Ping(ctx))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
}
