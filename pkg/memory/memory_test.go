package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func stores(t *testing.T) map[string]Memory {
	_, client := setupTestRedis(t)
	return map[string]Memory{
		"inmemory": NewInMemoryStore(),
		"redis":    NewRedisMemoryFromClient(client, "test"),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "cart:user:1", []byte(`{"id":3}`), time.Hour))

			got, err := store.Get(ctx, "cart:user:1")
			require.NoError(t, err)
			assert.Equal(t, `{"id":3}`, string(got))

			exists, err := store.Exists(ctx, "cart:user:1")
			require.NoError(t, err)
			assert.True(t, exists)

			require.NoError(t, store.Delete(ctx, "cart:user:1"))

			exists, err = store.Exists(ctx, "cart:user:1")
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = store.Get(ctx, "cart:user:1")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestInMemoryStoreExpiration(t *testing.T) {
	store := NewInMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	exists, _ := store.Exists(ctx, "k")
	assert.True(t, exists)

	now = now.Add(2 * time.Minute)

	_, err := store.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInMemoryStoreCopiesValues(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisMemoryNamespaceAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisMemoryFromClient(client, "storefront:cart")
	store.SetTTL(30 * time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:1", []byte("x"), 0))

	assert.True(t, mr.Exists("storefront:cart:user:1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("storefront:cart:user:1"))

	mr.FastForward(31 * time.Minute)
	_, err := store.Get(ctx, "user:1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewRedisMemory(t *testing.T) {
	mr, _ := setupTestRedis(t)

	store, err := NewRedisMemory(context.Background(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, "storefront", store.namespace)

	_, err = NewRedisMemory(context.Background(), "://bad", "x")
	assert.Error(t, err)
}
