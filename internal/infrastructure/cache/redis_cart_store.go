package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCartKeyPrefix namespaces cart keys in Redis
const DefaultCartKeyPrefix = "storefront:cart:"

// RedisCartStore keeps cart ids in Redis so every gateway instance sees
// the same cart for a customer.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisCartStore connects to Redis and verifies the connection
func NewRedisCartStore(cfg RedisConfig) (*RedisCartStore, error) {
	if cfg.Host == "" {
		return nil, errors.New("redis host is not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCartStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client
func NewRedisCartStoreWithClient(client *redis.Client, keyPrefix string) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = DefaultCartKeyPrefix
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the active cart id for scope
func (s *RedisCartStore) Get(ctx context.Context, scope string) (string, bool, error) {
	cartID, err := s.client.Get(ctx, s.keyPrefix+scope).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cart: %w", err)
	}
	return cartID, true, nil
}

// Save stores cartID for scope. A zero ttl never expires.
func (s *RedisCartStore) Save(ctx context.Context, scope, cartID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+scope, cartID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete forgets the cart for scope
func (s *RedisCartStore) Delete(ctx context.Context, scope string) error {
	if err := s.client.Del(ctx, s.keyPrefix+scope).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisCartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}
