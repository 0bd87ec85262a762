package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  nil,
	OrderStatusCancelled:  nil,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("%w: order status %q", ErrInvalidInput, s)
	}

	return status, nil
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// OrderLine is frozen at checkout. ItemID is kept for traceability only.
type OrderLine struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	SellerID  string
	ItemName  string
	UnitPrice Money
	Quantity  int

	CreatedAt time.Time
}

func (l OrderLine) Total() Money {
	return l.UnitPrice.Times(l.Quantity)
}

type Order struct {
	ID          uuid.UUID
	BuyerID     string
	BuyerEmail  string
	OrderUser   OrderUser
	Lines       []OrderLine
	TotalAmount Money
	Status      OrderStatus

	TrackingNumber    *string
	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	DeliveredAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSeller reports whether any line of the order belongs to sellerID.
func (o Order) HasSeller(sellerID string) bool {
	for _, l := range o.Lines {
		if l.SellerID == sellerID {
			return true
		}
	}

	return false
}

// SellerIDs returns the distinct sellers of the order's lines.
func (o Order) SellerIDs() []string {
	seen := make(map[string]struct{}, len(o.Lines))
	var ids []string
	for _, l := range o.Lines {
		if _, ok := seen[l.SellerID]; ok {
			continue
		}
		seen[l.SellerID] = struct{}{}
		ids = append(ids, l.SellerID)
	}

	return ids
}

// Transition moves the order to next, stamping shipped_at and delivered_at the
// first time those statuses are entered. Re-applying the current status is a no-op.
func (o *Order) Transition(next OrderStatus, now time.Time) error {
	if o.Status == next {
		return nil
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	switch next {
	case OrderStatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
	o.UpdatedAt = now

	return nil
}

// CanManage reports whether who may change the order's status or tracking.
func (o Order) CanManage(who Identity) bool {
	switch who.Role {
	case RoleOperator:
		return true
	case RoleSeller:
		return o.HasSeller(who.ID)
	default:
		return false
	}
}

// CanView reports whether who may read the order.
func (o Order) CanView(who Identity) bool {
	if who.Role == RoleBuyer {
		return o.BuyerID == who.ID
	}

	return o.CanManage(who)
}

// FulfillmentUpdate carries the mutable order fields; nil means unchanged.
type FulfillmentUpdate struct {
	Status            *OrderStatus
	TrackingNumber    *string
	EstimatedDelivery *time.Time
}

func (u FulfillmentUpdate) IsEmpty() bool {
	return u.Status == nil && u.TrackingNumber == nil && u.EstimatedDelivery == nil
}

// Apply applies u to the order.
func (o *Order) Apply(u FulfillmentUpdate, now time.Time) error {
	if u.Status != nil {
		if err := o.Transition(*u.Status, now); err != nil {
			return err
		}
	}
	if u.TrackingNumber != nil {
		tn := *u.TrackingNumber
		o.TrackingNumber = &tn
		o.UpdatedAt = now
	}
	if u.EstimatedDelivery != nil {
		ed := *u.EstimatedDelivery
		o.EstimatedDelivery = &ed
		o.UpdatedAt = now
	}

	return nil
}
