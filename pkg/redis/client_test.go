package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	counters map[string]int64
	expires  map[string]time.Duration
	values   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counters: map[string]int64{},
		expires:  map[string]time.Duration{},
		values:   map[string]string{},
	}
}

func (f *fakeStore) Ping(ctx context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *goredis.StatusCmd {
	f.values[key] = value.(string)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(ctx context.Context, key string) *goredis.StringCmd {
	value, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(value, nil)
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *goredis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeStore) Incr(ctx context.Context, key string) *goredis.IntCmd {
	f.counters[key]++
	return goredis.NewIntResult(f.counters[key], nil)
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *goredis.BoolCmd {
	f.expires[key] = ttl
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return goredis.NewIntResult(removed, nil)
}

func TestFixedWindowAllow(t *testing.T) {
	store := newFakeStore()
	client := NewFromCmdable(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "login:alice", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(i+1), count)
	}

	allowed, count, err := client.FixedWindowAllow(ctx, "login:alice", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(4), count)

	// TTL is applied once, on the first increment.
	assert.Equal(t, time.Minute, store.expires[client.RateLimitKey("login:alice")])
}

func TestKeyNamespacing(t *testing.T) {
	client := NewFromCmdable(newFakeStore())

	assert.Equal(t, "pc:rate_limit:login:bob", client.RateLimitKey("login:bob"))
	assert.Equal(t, "pc:counter:orders_created", client.CounterKey("orders_created"))
}

func TestSetGetDel(t *testing.T) {
	client := NewFromCmdable(newFakeStore())
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", 0))
	value, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, client.Del(ctx, "k"))
	_, err = client.Get(ctx, "k")
	require.Error(t, err)
}
