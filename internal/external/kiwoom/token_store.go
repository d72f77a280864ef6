package kiwoom

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hidvid/traderpark/backend/pkg/logger"
	"github.com/hidvid/traderpark/backend/pkg/redis"
)

// TokenStore holds the single current token.
// Save replaces the token as a whole.
type TokenStore interface {
	Load(ctx context.Context) (Token, bool)
	Save(ctx context.Context, tok Token) error
}

// NewTokenStore picks the Redis store when Redis is enabled, memory otherwise
func NewTokenStore(client *redis.Client, log *logger.Logger) TokenStore {
	if client == nil || !client.Enabled() {
		return NewMemoryTokenStore()
	}
	return NewRedisTokenStore(client, log)
}

// MemoryTokenStore keeps the token in process memory
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token Token
	set   bool
}

// NewMemoryTokenStore creates an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(_ context.Context) (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

func (s *MemoryTokenStore) Save(_ context.Context, tok Token) error {
	s.mu.Lock()
	s.token = tok
	s.set = true
	s.mu.Unlock()
	return nil
}

// RedisTokenStore shares the token between API replicas
type RedisTokenStore struct {
	client *redis.Client
	key    string
	logger *logger.Logger
}

// NewRedisTokenStore creates a Redis-backed store
func NewRedisTokenStore(client *redis.Client, log *logger.Logger) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		key:    client.Key("kiwoom", "token"),
		logger: log,
	}
}

// Load returns false on a miss or any Redis failure
func (s *RedisTokenStore) Load(ctx context.Context) (Token, bool) {
	data, err := s.client.Redis().Get(ctx, s.key).Bytes()
	if err != nil {
		if !redis.IsNil(err) {
			s.logger.WithError(err).Warn("Failed to load Kiwoom token from redis")
		}
		return Token{}, false
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		s.logger.WithError(err).Warn("Discarding malformed Kiwoom token in redis")
		return Token{}, false
	}

	return tok, true
}

// Save writes the token with a TTL ending at its expiry
func (s *RedisTokenStore) Save(ctx context.Context, tok Token) error {
	ttl := time.Until(tok.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired at %s", tok.ExpiresAt.Format(time.RFC3339))
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := s.client.Redis().Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
