package redis

// Package redis provides Redis-based adapters for the admin console.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// DefaultPrefix namespaces console keys when no prefix is configured.
const DefaultPrefix = "console:"

// KVStore is a Redis-backed ports.KVStore for production use.
// Expiry is delegated to Redis key TTLs.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.KVStore = (*KVStore)(nil)

// NewKVStore creates a Redis key/value store using DefaultPrefix.
func NewKVStore(client redis.UniversalClient) *KVStore {
	return &KVStore{
		client: client,
		prefix: DefaultPrefix,
	}
}

// NewKVStoreWithPrefix creates a Redis key/value store with a custom key prefix.
func NewKVStoreWithPrefix(client redis.UniversalClient, prefix string) *KVStore {
	return &KVStore{
		client: client,
		prefix: prefix,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrNotFound
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if ttl < 0 {
		return errors.New("ttl cannot be negative")
	}

	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes every key with a single DEL so readers never observe a
// partially deleted set.
func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		full = append(full, s.prefix+k)
	}
	if len(full) == 0 {
		return nil // Nothing to delete
	}

	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
