package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// MemoryStorage is an in-process Storage, used for tests and ephemeral carts.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID, name string) string
}

// RedisStorage scopes cart snapshots to one shopper session in redis. Every
// write refreshes the TTL so idle carts eventually expire.
type RedisStorage struct {
	store     kvStore
	sessionID string
	ttl       time.Duration
}

// NewRedisStorage binds storage to a cart session.
func NewRedisStorage(store kvStore, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{store: store, sessionID: sessionID, ttl: ttl}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.store.Get(ctx, r.store.CartKey(r.sessionID, key))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	return r.store.Set(ctx, r.store.CartKey(r.sessionID, key), value, r.ttl)
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return r.store.Del(ctx, r.store.CartKey(r.sessionID, key))
}
