package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

type OrderService struct {
	tx       port.Transactor
	notifier port.OrderNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewOrderService(tx port.Transactor, notifier port.OrderNotifier, logger *zap.Logger) (*OrderService, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrderService{
		tx:       tx,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// ListOrders returns the orders visible to who: a buyer's own orders, the
// orders holding a seller's lines, or every order for an operator.
func (s *OrderService) ListOrders(ctx context.Context, who domain.Identity) ([]domain.Order, error) {
	orders := s.tx.Repositories().Orders

	var (
		result []domain.Order
		err    error
	)
	switch who.Role {
	case domain.RoleBuyer:
		result, err = orders.ListBuyerOrders(ctx, who.ID)
	case domain.RoleSeller:
		result, err = orders.ListSellerOrders(ctx, who.ID)
	case domain.RoleOperator:
		result, err = orders.ListOrders(ctx)
	default:
		return nil, domain.ErrForbiddenRole
	}
	if err != nil {
		return nil, fmt.Errorf("orders.List: %w", err)
	}

	return result, nil
}

func (s *OrderService) ListSellerOrders(ctx context.Context, who domain.Identity) ([]domain.Order, error) {
	if who.Role != domain.RoleSeller {
		return nil, domain.ErrForbiddenRole
	}

	orders, err := s.tx.Repositories().Orders.ListSellerOrders(ctx, who.ID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListSellerOrders: %w", err)
	}

	return orders, nil
}

// GetOrder returns the order if who may view it. Orders outside the caller's
// reach are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, who domain.Identity, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.tx.Repositories().Orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !order.CanView(who) {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return order, nil
}

// UpdateFulfillment changes the status and tracking fields of an order. Only
// an operator or a seller owning one of the order's lines may do so.
func (s *OrderService) UpdateFulfillment(ctx context.Context, who domain.Identity, orderID uuid.UUID, update domain.FulfillmentUpdate) (domain.Order, error) {
	if update.IsEmpty() {
		return domain.Order{}, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	var (
		order    domain.Order
		previous domain.OrderStatus
	)
	err := s.tx.InTx(ctx, func(repos port.Repositories) error {
		var err error
		order, err = repos.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		if !order.CanManage(who) {
			if order.CanView(who) {
				return domain.ErrForbiddenRole
			}
			return domain.ErrOrderNotFound
		}

		previous = order.Status
		if err := order.Apply(update, s.now()); err != nil {
			return err
		}

		if err := repos.Orders.UpdateFulfillment(ctx, order, previous); err != nil {
			return fmt.Errorf("orders.UpdateFulfillment: %w", err)
		}

		order, err = repos.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		if IsValidation(err) {
			s.logger.Info("fulfillment update rejected", zap.String("order_id", orderID.String()), zap.Error(err))
		} else {
			s.logger.Error("fulfillment update failed", zap.String("order_id", orderID.String()), zap.Error(err))
		}
		return domain.Order{}, err
	}

	s.logger.Info("order updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)),
		zap.String("by", who.ID),
	)

	if s.notifier != nil {
		s.notifier.Notify(port.OrderStatusChanged, order)
	}

	return order, nil
}
