package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type CartRepository interface {
	// GetOrCreate returns the owner's generic cart, creating it empty on first access.
	GetOrCreate(ctx context.Context, ownerID string) (domain.Cart, error)
	// FindForCheckout locks the owner's generic cart for the rest of the transaction.
	// ok is false when the owner never had a cart.
	FindForCheckout(ctx context.Context, ownerID string) (cart domain.Cart, ok bool, err error)
	UpsertLines(ctx context.Context, cartID uuid.UUID, lines []domain.CartLineInput) error
	UpdateLineQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error)
	DeleteLines(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	ClearLines(ctx context.Context, cartID uuid.UUID) error
}
