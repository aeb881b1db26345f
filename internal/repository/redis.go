package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/atinyakov/GophLogin/internal/storage"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisNamespace prefixes the hash name of every partition.
const DefaultRedisNamespace = "authdemo:storage"

// RedisProvider keeps each partition in its own Redis hash.
type RedisProvider struct {
	Client    redis.UniversalClient
	Namespace string
}

// NewRedisProvider creates a RedisProvider. An empty namespace falls back to
// DefaultRedisNamespace.
func NewRedisProvider(client redis.UniversalClient, namespace string) *RedisProvider {
	if namespace == "" {
		namespace = DefaultRedisNamespace
	}
	return &RedisProvider{Client: client, Namespace: namespace}
}

// Open returns the store for partition.
func (p *RedisProvider) Open(partition string) (storage.Store, error) {
	if err := storage.ValidatePartition(partition); err != nil {
		return nil, err
	}
	return &RedisStore{Client: p.Client, Hash: p.Namespace + ":" + partition}, nil
}

// RedisStore implements storage.Store over a single Redis hash.
type RedisStore struct {
	Client redis.UniversalClient
	Hash   string
}

func (s *RedisStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.Client.HGet(ctx, s.Hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return v, true, nil
}

func (s *RedisStore) SetItem(ctx context.Context, key, value string) error {
	if err := s.Client.HSet(ctx, s.Hash, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, key string) error {
	if err := s.Client.HDel(ctx, s.Hash, key).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

// RemoveItems deletes keys with a single HDEL.
func (s *RedisStore) RemoveItems(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.Client.HDel(ctx, s.Hash, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.Client.HKeys(ctx, s.Hash).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hkeys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
