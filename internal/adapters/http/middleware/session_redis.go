package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "repairshop:session:"

// RedisSessionStore keeps sessions in Redis so several server instances share logins.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to the Redis server at url (redis://host:port/db).
// PRE: url is a valid redis:// or rediss:// URL
// POST: Returns a store whose server answered PING, or an error
func NewRedisSessionStore(ctx context.Context, url string) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return &RedisSessionStore{client: client}, nil
}

// Close releases the Redis connection pool.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Create stores a new session with a SessionTTL expiry and returns the token.
func (s *RedisSessionStore) Create(ctx context.Context, adminID uint, username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(Session{AdminID: adminID, Username: username, CreatedAt: timeNow()})
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, redisSessionPrefix+token, payload, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Get retrieves a session by token. Redis expiry enforces SessionTTL.
func (s *RedisSessionStore) Get(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	raw, err := s.client.Get(ctx, redisSessionPrefix+token).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("auth_event", "event", "session_lookup_failed", "error", err)
		}
		return Session{}, false
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		slog.Warn("auth_event", "event", "session_corrupt", "error", err)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisSessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
