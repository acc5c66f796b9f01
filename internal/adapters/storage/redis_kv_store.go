package storage

import (
	"context"
	"errors"
	"fmt"
	"place-picker-service/internal/platform/obs"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis backed key-value store. Keys are namespaced with Prefix.
type RedisKeyValueStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisKeyValueStore(client *redis.Client, prefix string) *RedisKeyValueStore {
	return &RedisKeyValueStore{Client: client, Prefix: prefix}
}

// OpenRedis creates a client and verifies the connection.
func OpenRedis(ctx context.Context, addr, pass string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis %s: ping: %w", addr, err)
	}
	return client, nil
}

func (s *RedisKeyValueStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.redis.Get")(&err)

	if s.Client == nil {
		return "", false, errors.New("redis kv store: client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return "", false, errors.New("get kv entry: key must not be empty")
	}

	v, err := s.Client.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get kv entry %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisKeyValueStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "kv.redis.Set")(&err)

	if s.Client == nil {
		return errors.New("redis kv store: client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv entry: key must not be empty")
	}

	// No expiry: the selection outlives the process.
	if err := s.Client.Set(ctx, s.Prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("insert kv entry %q: %w", key, err)
	}
	return nil
}
