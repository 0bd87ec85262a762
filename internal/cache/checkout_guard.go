package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/redis/go-redis/v9"
)

const guardKeyPrefix = "guard:"

type checkoutGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutGuard holds checkout keys in Redis for at most ttl.
func NewCheckoutGuard(client *redis.Client, ttl time.Duration) (port.CheckoutGuard, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}

	return &checkoutGuard{
		client: client,
		ttl:    ttl,
	}, nil
}

func (g *checkoutGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKeyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("client.SetNX: %w", err)
	}

	return ok, nil
}

func (g *checkoutGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}
