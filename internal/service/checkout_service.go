package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"go.uber.org/zap"
)

type CheckoutRequest struct {
	OrderUserID uuid.UUID
	// IdempotencyKey is optional. Concurrent submissions sharing it are rejected.
	IdempotencyKey string
}

// CheckoutService turns a buyer's cart into an order.
type CheckoutService struct {
	tx       port.Transactor
	guard    port.CheckoutGuard
	notifier port.OrderNotifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCheckoutService returns the order assembler. guard and notifier may be
// nil. A zero timeout leaves the caller's deadline in charge.
func NewCheckoutService(
	tx port.Transactor,
	guard port.CheckoutGuard,
	notifier port.OrderNotifier,
	timeout time.Duration,
	logger *zap.Logger,
) (*CheckoutService, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor is nil")
	}
	if timeout < 0 {
		return nil, fmt.Errorf("timeout is negative")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CheckoutService{
		tx:       tx,
		guard:    guard,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Checkout validates the buyer's cart against stock, takes the stock, freezes
// the lines into a pending order and empties the cart, all in one transaction.
// On any error nothing is changed.
func (s *CheckoutService) Checkout(ctx context.Context, who domain.Identity, req CheckoutRequest) (_ domain.Order, err error) {
	if !who.CanShop() {
		return domain.Order{}, domain.ErrForbiddenRole
	}

	logger := s.logger.With(zap.String("buyer_id", who.ID), zap.String("order_user_id", req.OrderUserID.String()))

	if s.guard != nil && req.IdempotencyKey != "" {
		key := "checkout:" + who.ID + ":" + req.IdempotencyKey

		acquired, acquireErr := s.guard.Acquire(ctx, key)
		if acquireErr != nil {
			return domain.Order{}, fmt.Errorf("guard.Acquire: %w", acquireErr)
		}
		if !acquired {
			logger.Info("checkout already in progress", zap.String("idempotency_key", req.IdempotencyKey))
			return domain.Order{}, domain.ErrCheckoutInProgress
		}

		// a failed attempt frees the key so a corrected retry can proceed
		defer func() {
			if err == nil {
				return
			}
			if releaseErr := s.guard.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
				logger.Warn("guard.Release", zap.Error(releaseErr))
			}
		}()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var order domain.Order
	err = s.tx.InTx(ctx, func(repos port.Repositories) error {
		var err error
		order, err = assemble(ctx, repos, who, req.OrderUserID)
		return err
	})
	if err != nil {
		logCheckoutFailure(logger, err)
		return domain.Order{}, err
	}

	logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.Stringer("total", order.TotalAmount),
	)

	if s.notifier != nil {
		s.notifier.Notify(port.OrderCreated, order)
	}

	return order, nil
}

func assemble(ctx context.Context, repos port.Repositories, who domain.Identity, orderUserID uuid.UUID) (domain.Order, error) {
	cart, found, err := repos.Carts.FindForCheckout(ctx, who.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("carts.FindForCheckout: %w", err)
	}
	if !found || cart.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	// held until commit so the target cannot be edited under a new order
	orderUser, found, err := repos.OrderUsers.ShareOrderUser(ctx, orderUserID, who.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orderUsers.ShareOrderUser: %w", err)
	}
	if !found {
		return domain.Order{}, domain.ErrInvalidShippingTarget
	}

	// lines are taken in item id order so concurrent checkouts lock rows alike
	cartLines := cart.SortedLines()
	lines := make([]domain.OrderLine, 0, len(cartLines))
	totals := make([]domain.Money, 0, len(cartLines))

	for _, cl := range cartLines {
		item, err := repos.Inventory.ReserveAndDecrement(ctx, cl.ItemID, cl.Quantity)
		if err != nil {
			var stockErr *domain.InsufficientStockError
			if errors.As(err, &stockErr) && stockErr.ItemName == "" {
				stockErr.ItemName = cl.ItemName
			}
			return domain.Order{}, fmt.Errorf("inventory.ReserveAndDecrement: %w", err)
		}

		line := domain.OrderLine{
			ItemID:    item.ID,
			SellerID:  item.SellerID,
			ItemName:  item.Name,
			UnitPrice: item.Price,
			Quantity:  cl.Quantity,
		}
		lines = append(lines, line)
		totals = append(totals, line.Total())
	}

	total, err := domain.SumMoney(lines[0].UnitPrice.Currency, totals...)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := repos.Orders.CreateOrder(ctx, domain.Order{
		BuyerID:     who.ID,
		BuyerEmail:  who.Email,
		OrderUser:   orderUser,
		Lines:       lines,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.CreateOrder: %w", err)
	}

	if err := repos.Carts.ClearLines(ctx, cart.ID); err != nil {
		return domain.Order{}, fmt.Errorf("carts.ClearLines: %w", err)
	}

	return order, nil
}

func logCheckoutFailure(logger *zap.Logger, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		logger.Info("checkout rejected: insufficient stock",
			zap.String("item_id", stockErr.ItemID.String()),
			zap.Int("requested", stockErr.Requested),
			zap.Int("available", stockErr.Available),
		)
	case IsValidation(err):
		logger.Info("checkout rejected", zap.Error(err))
	default:
		logger.Error("checkout failed", zap.Error(err))
	}
}
