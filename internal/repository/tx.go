package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateNumericOutOfRange    = "22003"
	sqlStateForeignKeyViolation  = "23503"
)

func withTx[T any](ctx context.Context, pool *pgxpool.Pool, q *db.Queries, fn func(q *db.Queries) (T, error)) (_ T, txErr error) {
	var zero T

	// If we're already in a transaction (pool is nil), just use the existing queries
	if pool == nil {
		return fn(q)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			// the rollback must run even when ctx is already done
			rollbackErr := tx.Rollback(context.WithoutCancel(ctx))
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(q.WithTx(tx))
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}

type transactor struct {
	pool       *pgxpool.Pool
	maxRetries uint64
	logger     *zap.Logger
}

// NewTransactor runs units of work in Postgres transactions. Serialization
// failures and deadlocks are retried up to maxRetries times.
func NewTransactor(pool *pgxpool.Pool, maxRetries int, logger *zap.Logger) (port.Transactor, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	if maxRetries < 0 {
		return nil, fmt.Errorf("maxRetries is negative")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &transactor{
		pool:       pool,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}, nil
}

func (t *transactor) Repositories() port.Repositories {
	return newRepositories(db.New(t.pool), t.pool)
}

func (t *transactor) InTx(ctx context.Context, fn func(repos port.Repositories) error) error {
	attempt := 0

	operation := func() error {
		attempt++

		_, err := withTx(ctx, t.pool, db.New(t.pool), func(q *db.Queries) (struct{}, error) {
			return struct{}{}, fn(newRepositories(q, nil))
		})
		if err == nil {
			return nil
		}

		if isRetryable(err) {
			t.logger.Warn("transaction conflict, retrying", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, t.maxRetries), ctx))
}

func newRepositories(q *db.Queries, pool *pgxpool.Pool) port.Repositories {
	return port.Repositories{
		Carts:      &cartRepository{q: q, pool: pool},
		Items:      &itemRepository{q: q},
		Inventory:  &inventoryLedger{q: q},
		Orders:     &orderRepository{q: q, pool: pool},
		OrderUsers: &orderUserRepository{q: q},
	}
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}
