package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID string) ([]domain.Order, error)
	ListSellerOrders(ctx context.Context, sellerID string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// UpdateFulfillment persists status and tracking fields, provided the stored
	// status still equals expected. It returns domain.ErrStaleOrder otherwise.
	UpdateFulfillment(ctx context.Context, order domain.Order, expected domain.OrderStatus) error
}

type OrderUserRepository interface {
	CreateOrderUser(ctx context.Context, user domain.OrderUser) (domain.OrderUser, error)
	// GetOrderUser returns the shipping target only when it is owned by buyerID.
	GetOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error)
	// ShareOrderUser is GetOrderUser that also keeps the target unchanged
	// until the transaction ends.
	ShareOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error)
	// LockOrderUser is GetOrderUser that holds the target exclusively until the
	// transaction ends.
	LockOrderUser(ctx context.Context, id uuid.UUID, buyerID string) (domain.OrderUser, bool, error)
	ListOrderUsers(ctx context.Context, buyerID string) ([]domain.OrderUser, error)
	// IsOrderUserReferenced reports whether any order ships to the target.
	IsOrderUserReferenced(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateOrderUser(ctx context.Context, user domain.OrderUser) (domain.OrderUser, error)
	// DeleteOrderUser returns domain.ErrOrderUserInUse when an order refers to
	// the target.
	DeleteOrderUser(ctx context.Context, id uuid.UUID) error
}
