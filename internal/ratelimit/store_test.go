package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCounterStore_FirstIncrSetsTTL(t *testing.T) {
	store, mr := newRedisStore(t)

	count, ttl, err := store.Incr(context.Background(), "1", 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 30*time.Second, ttl)
	assert.Equal(t, 30*time.Second, mr.TTL("limit::product::actions::user::1"))
}

func TestRedisCounterStore_KeyWithoutTTLIsRepaired(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("limit::product::actions::user::1", "4"))

	count, ttl, err := store.Incr(context.Background(), "1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, time.Minute, ttl)
}

func TestRedisCounterStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisCounterStore(rdb, WithKeyPrefix("test:"))

	_, _, err := store.Incr(context.Background(), "u", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:u"))
}

func TestRedisCounterStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisCounterStore(rdb)
	mr.Close()

	_, _, err := store.Incr(context.Background(), "u", time.Minute)
	assert.Error(t, err)
}
