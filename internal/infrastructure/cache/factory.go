package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/infrastructure/config"
)

// CartStoreFactory creates cart stores based on configuration
type CartStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CartStoreFactoryOption is a functional option for configuring the factory
type CartStoreFactoryOption func(*CartStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCartStoreFactory creates a new factory
func NewCartStoreFactory(cfg config.RedisConfig, opts ...CartStoreFactoryOption) *CartStoreFactory {
	f := &CartStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore creates a Redis-based cart store
func (f *CartStoreFactory) CreateRedisStore() (encargo.CartStore, error) {
	store, err := NewRedisCartStore(RedisConfig{
		Host:      f.redisConfig.Host,
		Port:      f.redisConfig.Port,
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.redisConfig.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cart store: %w", err)
	}
	return store, nil
}

// CreateStore tries Redis first and falls back to the in-memory store when
// fallback is allowed.
func (f *CartStoreFactory) CreateStore() (encargo.CartStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis cart store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for cart sessions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cart store. "+
		"Carts will not be shared between instances.",
		zap.Error(err),
	)
	return NewInMemoryCartStore(), nil
}
