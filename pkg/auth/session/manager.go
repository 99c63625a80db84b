// Package session keeps the server-side half of an admin login in redis, so a
// logout revokes the token before its exp claim.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/doctorpiscinas/storefront-backend/pkg/config"
	redisclient "github.com/doctorpiscinas/storefront-backend/pkg/redis"
)

var errBlankAccessID = errors.New("access id is required")

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is the read side used by the auth middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Record is what a live session stores.
type Record struct {
	Subject  string    `json:"sub"`
	OpenedAt time.Time `json:"opened_at"`
}

type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager keeps sessions alive for as long as the access token they back.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return newManager(client, cfg.TTL())
}

func newManager(s store, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Manager{store: s, ttl: ttl, now: time.Now}, nil
}

func (m *Manager) key(accessID string) (string, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return "", errBlankAccessID
	}
	return m.store.AccessSessionKey(accessID), nil
}

// Generate opens the session for accessID on behalf of subject.
func (m *Manager) Generate(ctx context.Context, accessID, subject string) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Record{Subject: subject, OpenedAt: m.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return m.store.Set(ctx, key, string(payload), m.ttl)
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	key, err := m.key(accessID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

// Lookup returns the stored record, or nil when the session is gone.
func (m *Manager) Lookup(ctx context.Context, accessID string) (*Record, error) {
	key, err := m.key(accessID)
	if err != nil {
		return nil, err
	}
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	rec, err := m.Lookup(ctx, accessID)
	return rec != nil, err
}

// NewAccessID mints the jti shared by the token and its session. v7 keeps the
// keys roughly time ordered.
func NewAccessID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
