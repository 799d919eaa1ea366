package dao

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionPrefix 会话键前缀
const DefaultSessionPrefix = "fnb:revoked:"

// RedisSessionStore keeps revoked session ids in redis until their token
// would have expired anyway.
// RedisSessionStore 使用 Redis 记录已注销的会话
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore connects to redisURL and checks it with a ping.
func NewRedisSessionStore(redisURL, prefix string) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "connect to redis")
	}
	return NewRedisSessionStoreWithClient(client, prefix), nil
}

// NewRedisSessionStoreWithClient wraps an existing client.
func NewRedisSessionStoreWithClient(client *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Revoke marks sessionID revoked for ttl seconds.
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string, ttl int64) error {
	if ttl <= 0 {
		return nil
	}
	err := s.client.Set(ctx, s.key(sessionID), "1", time.Duration(ttl)*time.Second).Err()
	return domain.Storage("SessionStore.Revoke", err)
}

// IsRevoked 判断会话是否已注销
func (s *RedisSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := s.client.Get(ctx, s.key(sessionID)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, domain.Storage("SessionStore.IsRevoked", err)
	}
	return true, nil
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Ping checks if redis is reachable.
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MemorySessionStore is the single-process fallback used when no redis is
// configured. Expired entries are dropped on access and by Sweep.
// MemorySessionStore 进程内会话存储
type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *MemorySessionStore) Revoke(_ context.Context, sessionID string, ttl int64) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.revoked[sessionID] = s.now().Add(time.Duration(ttl) * time.Second)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, exp := range s.revoked {
		if !now.Before(exp) {
			delete(s.revoked, id)
			n++
		}
	}
	return n
}

func (s *MemorySessionStore) Close() error {
	s.mu.Lock()
	s.revoked = make(map[string]time.Time)
	s.mu.Unlock()
	return nil
}
