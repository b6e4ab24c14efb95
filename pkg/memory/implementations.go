package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisMemory implements the Memory interface using Redis
type RedisMemory struct {
	client     *redis.Client
	namespace  string
	defaultTTL time.Duration
	mu         sync.RWMutex
}

// NewRedisMemory connects to redisURL and verifies the connection.
func NewRedisMemory(ctx context.Context, redisURL, namespace string) (*RedisMemory, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisMemoryFromClient(client, namespace), nil
}

// NewRedisMemoryFromClient wraps an existing client.
func NewRedisMemoryFromClient(client *redis.Client, namespace string) *RedisMemory {
	if namespace == "" {
		namespace = "storefront"
	}
	return &RedisMemory{
		client:     client,
		namespace:  namespace,
		defaultTTL: time.Hour,
	}
}

// Set stores a value with TTL; zero uses the default TTL.
func (r *RedisMemory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		r.mu.RLock()
		ttl = r.defaultTTL
		r.mu.RUnlock()
	}

	if err := r.client.Set(ctx, r.buildKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Get retrieves a value by key
func (r *RedisMemory) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.buildKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return data, nil
}

// Delete removes a key
func (r *RedisMemory) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Exists checks if a key exists
func (r *RedisMemory) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, r.buildKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}

// SetTTL sets the default TTL for future operations
func (r *RedisMemory) SetTTL(ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultTTL = ttl
}

func (r *RedisMemory) buildKey(key string) string {
	return r.namespace + ":" + key
}

// Close closes the Redis connection
func (r *RedisMemory) Close() error {
	return r.client.Close()
}

// InMemoryStore is a process-local Memory with lazy expiry.
type InMemoryStore struct {
	data       map[string]valueWithExpiry
	defaultTTL time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

type valueWithExpiry struct {
	value  []byte
	expiry time.Time
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data:       make(map[string]valueWithExpiry),
		defaultTTL: time.Hour,
		now:        time.Now,
	}
}

// Set stores a copy of value with TTL; zero uses the default TTL.
func (m *InMemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl == 0 {
		ttl = m.defaultTTL
	}

	m.data[key] = valueWithExpiry{
		value:  append([]byte(nil), value...),
		expiry: m.now().Add(ttl),
	}
	return nil
}

// Get retrieves a copy of the value stored under key.
func (m *InMemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), entry.value...), nil
}

// Delete removes a key
func (m *InMemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Exists checks if a key exists
func (m *InMemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok, nil
}

// SetTTL sets the default TTL
func (m *InMemoryStore) SetTTL(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultTTL = ttl
}

// lookup must be called with m.mu held. Expired entries are evicted.
func (m *InMemoryStore) lookup(key string) (valueWithExpiry, bool) {
	entry, ok := m.data[key]
	if !ok {
		return valueWithExpiry{}, false
	}
	if m.now().After(entry.expiry) {
		delete(m.data, key)
		return valueWithExpiry{}, false
	}
	return entry, true
}
