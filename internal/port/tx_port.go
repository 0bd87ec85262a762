package port

import "context"

// Repositories is a set of repositories bound to one transaction.
type Repositories struct {
	Carts      CartRepository
	Items      ItemRepository
	Inventory  InventoryLedger
	Orders     OrderRepository
	OrderUsers OrderUserRepository
}

// Transactor runs fn in a single atomic transaction. Any error returned by fn
// rolls back every change made through the given repositories.
type Transactor interface {
	InTx(ctx context.Context, fn func(repos Repositories) error) error
	// Repositories returns repositories working outside of a transaction.
	Repositories() Repositories
}
