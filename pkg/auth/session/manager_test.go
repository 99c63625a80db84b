package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorpiscinas/storefront-backend/pkg/config"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

func TestManagerLifecycle(t *testing.T) {
	store := newMemoryStore()
	manager, err := newManager(store, time.Hour)
	require.NoError(t, err)
	opened := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return opened }
	ctx := context.Background()

	accessID := NewAccessID()
	require.NoError(t, manager.Generate(ctx, accessID, "admin@doctorpiscinas.test"))
	assert.Equal(t, time.Hour, store.ttls["sess:"+accessID])

	rec, err := manager.Lookup(ctx, accessID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "admin@doctorpiscinas.test", rec.Subject)
	assert.True(t, opened.Equal(rec.OpenedAt))

	ok, err := manager.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, manager.Revoke(ctx, accessID))
	ok, err = manager.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerRejectsBlankAccessID(t *testing.T) {
	manager, err := newManager(newMemoryStore(), time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, manager.Generate(ctx, " ", "x"), errBlankAccessID)
	assert.ErrorIs(t, manager.Revoke(ctx, ""), errBlankAccessID)
	_, err = manager.HasSession(ctx, "")
	assert.ErrorIs(t, err, errBlankAccessID)
}

func TestManagerCorruptRecord(t *testing.T) {
	store := newMemoryStore()
	store.data["sess:abc"] = "not-json"
	manager, err := newManager(store, time.Hour)
	require.NoError(t, err)

	_, err = manager.HasSession(context.Background(), "abc")
	assert.Error(t, err)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{ExpirationMinutes: 60})
	assert.Error(t, err)

	_, err = newManager(newMemoryStore(), 0)
	assert.Error(t, err)
}

func TestNewAccessIDUnique(t *testing.T) {
	assert.NotEqual(t, NewAccessID(), NewAccessID())
	assert.Len(t, NewAccessID(), 36)
}
