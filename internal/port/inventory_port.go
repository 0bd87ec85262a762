package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

// InventoryLedger is the only writer of item quantities.
type InventoryLedger interface {
	// ReserveAndDecrement atomically takes quantity units of the item and returns
	// the item as it is after the decrement. It fails with
	// *domain.InsufficientStockError when fewer units are on hand and with
	// *domain.ItemNotFoundError when the item does not exist. It never clamps.
	ReserveAndDecrement(ctx context.Context, itemID uuid.UUID, quantity int) (domain.Item, error)
	// Restock atomically adds quantity units and returns the new on-hand quantity.
	Restock(ctx context.Context, itemID uuid.UUID, quantity int) (int, error)
}
