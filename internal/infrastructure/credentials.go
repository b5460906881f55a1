package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"oppdash/internal/domain"
	"oppdash/pkg/config"
	"oppdash/pkg/logger"
)

// implements domain.CredentialStore interface over fixed values
type StaticCredentialStore struct {
	tokens map[string]string
}

func NewStaticCredentialStore(tokens map[string]string) *StaticCredentialStore {
	copied := make(map[string]string, len(tokens))
	for k, v := range tokens {
		copied[k] = v
	}
	return &StaticCredentialStore{tokens: copied}
}

func (s *StaticCredentialStore) Token(ctx context.Context, key string) (string, bool, error) {
	token := strings.TrimSpace(s.tokens[key])
	return token, token != "", nil
}

// the only command the redis store needs
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// implements domain.CredentialStore interface backed by redis
type RedisCredentialStore struct {
	client redisGetter
	prefix string
}

func NewRedisCredentialStore(client redisGetter, prefix string) *RedisCredentialStore {
	return &RedisCredentialStore{client: client, prefix: prefix}
}

func (s *RedisCredentialStore) Token(ctx context.Context, key string) (string, bool, error) {
	token, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential %q: %w", key, err)
	}
	token = strings.TrimSpace(token)
	return token, token != "", nil
}

// NewCredentialStore picks the backend named in config. The returned closer
// releases the redis connection and is a no-op for the static backend.
func NewCredentialStore(ctx context.Context, cfg config.CredentialConfig, logger *logger.Logger) (domain.CredentialStore, func() error, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("could not connect to credential store: %w", err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("Using redis credential store")
		return NewRedisCredentialStore(client, cfg.RedisPrefix), client.Close, nil
	default:
		logger.Info("Using static credential store")
		return NewStaticCredentialStore(map[string]string{cfg.Key: cfg.StaticToken}), func() error { return nil }, nil
	}
}
