package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encargos/storefront/internal/domain/encargo"
)

var _ encargo.CartStore = (*InMemoryCartStore)(nil)
var _ encargo.CartStore = (*RedisCartStore)(nil)

func TestInMemoryCartStore_GetSave(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCartStore()
	defer store.Close()

	_, ok, err := store.Get(ctx, "guest")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "customer:42", "cart-1", time.Hour))
	id, ok, err := store.Get(ctx, "customer:42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cart-1", id)

	require.NoError(t, store.Save(ctx, "customer:42", "cart-2", time.Hour))
	id, _, _ = store.Get(ctx, "customer:42")
	assert.Equal(t, "cart-2", id)

	_, ok, _ = store.Get(ctx, "guest")
	assert.False(t, ok, "scopes are isolated")

	require.NoError(t, store.Delete(ctx, "customer:42"))
	_, ok, _ = store.Get(ctx, "customer:42")
	assert.False(t, ok)
	assert.NoError(t, store.Delete(ctx, "customer:42"), "deleting a missing scope is fine")
}

func TestInMemoryCartStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCartStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "guest", "cart-1", time.Minute))
	require.NoError(t, store.Save(ctx, "forever", "cart-2", 0))

	now = now.Add(2 * time.Minute)

	_, ok, err := store.Get(ctx, "guest")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, store.Size())

	id, ok, _ := store.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "cart-2", id)
}

func TestInMemoryCartStore_CancelledContext(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, "guest", "cart-1", time.Hour), context.Canceled)
	_, _, err := store.Get(ctx, "guest")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Size())
}

func TestInMemoryCartStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCartStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scope := fmt.Sprintf("customer:%d", i%5)
			_ = store.Save(ctx, scope, fmt.Sprintf("cart-%d", i), time.Hour)
			_, _, _ = store.Get(ctx, scope)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, store.Size())
}
