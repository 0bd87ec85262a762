package port

import "context"

// CheckoutGuard deduplicates concurrent checkout submissions sharing a key.
type CheckoutGuard interface {
	// Acquire returns false if the key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
