package encargo

import (
	"context"
	"time"
)

// CartStore remembers the active cart id per cart scope (see Session.CartScope).
// Implementations must be safe for concurrent use.
type CartStore interface {
	// Get returns the cart id stored for scope, or false when none is active
	Get(ctx context.Context, scope string) (string, bool, error)
	// Save stores cartID for scope, replacing any previous cart
	Save(ctx context.Context, scope, cartID string, ttl time.Duration) error
	// Delete forgets the cart for scope
	Delete(ctx context.Context, scope string) error
	// Close releases the store's resources
	Close() error
}
