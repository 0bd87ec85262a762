// Package memstore keeps carts, items and orders in process memory.
//
// Transactions are serialized: InTx works on a private copy of the state and
// publishes it only when fn succeeds, so a failed unit of work leaves no trace.
// Every unit of work shares one lock, which makes the store fit for development
// and tests but not for concurrent checkout throughput.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
)

type cartRecord struct {
	id        uuid.UUID
	ownerID   string
	createdAt time.Time
	updatedAt time.Time
	lines     map[uuid.UUID]domain.CartLine
}

type state struct {
	items      map[uuid.UUID]domain.Item
	carts      map[string]*cartRecord
	orders     map[uuid.UUID]domain.Order
	orderUsers map[uuid.UUID]domain.OrderUser
}

func newState() *state {
	return &state{
		items:      make(map[uuid.UUID]domain.Item),
		carts:      make(map[string]*cartRecord),
		orders:     make(map[uuid.UUID]domain.Order),
		orderUsers: make(map[uuid.UUID]domain.OrderUser),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:      maps.Clone(s.items),
		carts:      make(map[string]*cartRecord, len(s.carts)),
		orders:     maps.Clone(s.orders),
		orderUsers: maps.Clone(s.orderUsers),
	}
	for owner, rec := range s.carts {
		cp := *rec
		cp.lines = maps.Clone(rec.lines)
		c.carts[owner] = &cp
	}

	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

func New() *Store {
	return &Store{
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) InTx(ctx context.Context, fn func(repos port.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(s.repositories(func(f func(*state) error) error { return f(work) })); err != nil {
		return err
	}

	// a unit of work that outlived its deadline must not publish
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = work

	return nil
}

func (s *Store) Repositories() port.Repositories {
	return s.repositories(func(f func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		work := s.state.clone()
		if err := f(work); err != nil {
			return err
		}
		s.state = work

		return nil
	})
}

func (s *Store) repositories(with accessor) port.Repositories {
	return port.Repositories{
		Carts:      &cartRepository{with: with, now: s.now},
		Items:      &itemRepository{with: with, now: s.now},
		Inventory:  &inventoryLedger{with: with, now: s.now},
		Orders:     &orderRepository{with: with, now: s.now},
		OrderUsers: &orderUserRepository{with: with, now: s.now},
	}
}

// accessor runs f against either a transaction's working copy or, outside of
// a transaction, a copy published atomically on success.
type accessor func(f func(*state) error) error

func cloneOrder(o domain.Order) domain.Order {
	o.Lines = slices.Clone(o.Lines)

	return o
}
