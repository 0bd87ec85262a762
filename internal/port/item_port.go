package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

// ItemRepository is the catalog view of items. It never changes quantities.
type ItemRepository interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (domain.Item, error)
	// ActiveItemIDs returns the subset of ids naming existing, active items.
	ActiveItemIDs(ctx context.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	// DeleteItem removes the item and any cart lines naming it. Placed orders
	// keep their frozen copy.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}
