package port

import "github.com/nikolayk812/checkout-demo/internal/domain"

type OrderEventType string

const (
	OrderCreated       OrderEventType = "order.created"
	OrderStatusChanged OrderEventType = "order.updated"
)

// OrderNotifier receives orders after their changes are committed.
type OrderNotifier interface {
	Notify(eventType OrderEventType, order domain.Order)
}
